package model

import (
	"fmt"
	"time"
)

// FleetStatus represents the availability of a vehicle.
type FleetStatus string

const (
	FleetStatusAvailable    FleetStatus = "Available"
	FleetStatusInWorkshop   FleetStatus = "In Workshop"
	FleetStatusActive       FleetStatus = "Active"
	FleetStatusOutOfService FleetStatus = "Out of Service"
)

// Valid reports whether s is a known fleet status.
func (s FleetStatus) Valid() bool {
	switch s {
	case FleetStatusAvailable, FleetStatusInWorkshop, FleetStatusActive, FleetStatusOutOfService:
		return true
	}
	return false
}

// GeoLocation is the last reported vehicle position.
type GeoLocation struct {
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
	Address string  `json:"address,omitempty" yaml:"address"`
	City    string  `json:"city,omitempty" yaml:"city"`
}

// Label returns the address, then the city, then the coordinates.
func (g GeoLocation) Label() string {
	switch {
	case g.Address != "":
		return g.Address
	case g.City != "":
		return g.City
	default:
		return fmt.Sprintf("%g, %g", g.Lat, g.Lng)
	}
}

// FleetVehicle is a vehicle tracked alongside its asset record.
type FleetVehicle struct {
	BaseEntity         `yaml:",inline"`
	AssetID            string      `json:"assetId" yaml:"assetId" db:"asset_id"`
	PlateNumber        string      `json:"plateNumber" yaml:"plateNumber" db:"plate_number"`
	Type               string      `json:"type" yaml:"type" db:"type"`
	Brand              string      `json:"brand" yaml:"brand" db:"brand"`
	Model              string      `json:"model" yaml:"model" db:"model"`
	Year               int         `json:"year" yaml:"year" db:"year"`
	Odometer           float64     `json:"odometer" yaml:"odometer" db:"odometer"`
	LastKnownLocation  GeoLocation `json:"lastKnownLocation" yaml:"lastKnownLocation" db:"last_known_location"`
	LastGPSTimestamp   time.Time   `json:"lastGpsTimestamp" yaml:"lastGpsTimestamp" db:"last_gps_timestamp"`
	Status             FleetStatus `json:"status" yaml:"status" db:"status"`
	FuelType           string      `json:"fuelType,omitempty" yaml:"fuelType" db:"fuel_type"`
	VIN                string      `json:"vin,omitempty" yaml:"vin" db:"vin"`
	InsuranceExpiry    *Date       `json:"insuranceExpiry,omitempty" yaml:"insuranceExpiry" db:"insurance_expiry"`
	RegistrationExpiry *Date       `json:"registrationExpiry,omitempty" yaml:"registrationExpiry" db:"registration_expiry"`
}

// FleetFilter narrows fleet listings.
type FleetFilter struct {
	Query  string
	Status FleetStatus
	Type   string
}

// FleetCreateRequest is the payload for registering a vehicle.
type FleetCreateRequest struct {
	AssetID            string      `json:"assetId"`
	PlateNumber        string      `json:"plateNumber"`
	Type               string      `json:"type"`
	Brand              string      `json:"brand"`
	Model              string      `json:"model"`
	Year               int         `json:"year"`
	Odometer           float64     `json:"odometer"`
	LastKnownLocation  GeoLocation `json:"lastKnownLocation"`
	Status             FleetStatus `json:"status"`
	FuelType           string      `json:"fuelType"`
	VIN                string      `json:"vin"`
	InsuranceExpiry    *Date       `json:"insuranceExpiry"`
	RegistrationExpiry *Date       `json:"registrationExpiry"`
}

func (r FleetCreateRequest) Validate() map[string]string {
	errs := map[string]string{}
	if r.PlateNumber == "" {
		errs["plateNumber"] = "is required"
	}
	if r.Type == "" {
		errs["type"] = "is required"
	}
	if r.Odometer < 0 {
		errs["odometer"] = "must not be negative"
	}
	if r.Status != "" && !r.Status.Valid() {
		errs["status"] = "is not a valid fleet status"
	}
	return errs
}

func (r FleetCreateRequest) ToVehicle() *FleetVehicle {
	v := &FleetVehicle{
		BaseEntity:         NewBaseEntity(PrefixFleet),
		AssetID:            r.AssetID,
		PlateNumber:        r.PlateNumber,
		Type:               r.Type,
		Brand:              r.Brand,
		Model:              r.Model,
		Year:               r.Year,
		Odometer:           r.Odometer,
		LastKnownLocation:  r.LastKnownLocation,
		LastGPSTimestamp:   time.Now().UTC(),
		Status:             r.Status,
		FuelType:           r.FuelType,
		VIN:                r.VIN,
		InsuranceExpiry:    r.InsuranceExpiry,
		RegistrationExpiry: r.RegistrationExpiry,
	}
	if v.Status == "" {
		v.Status = FleetStatusAvailable
	}
	return v
}

// FleetUpdateRequest carries the fields to change on a vehicle.
type FleetUpdateRequest struct {
	AssetID            *string      `json:"assetId"`
	PlateNumber        *string      `json:"plateNumber"`
	Type               *string      `json:"type"`
	Brand              *string      `json:"brand"`
	Model              *string      `json:"model"`
	Year               *int         `json:"year"`
	Odometer           *float64     `json:"odometer"`
	LastKnownLocation  *GeoLocation `json:"lastKnownLocation"`
	Status             *FleetStatus `json:"status"`
	FuelType           *string      `json:"fuelType"`
	VIN                *string      `json:"vin"`
	InsuranceExpiry    *Date        `json:"insuranceExpiry"`
	RegistrationExpiry *Date        `json:"registrationExpiry"`
}

func (r FleetUpdateRequest) Apply(v *FleetVehicle) {
	setIf(&v.AssetID, r.AssetID)
	setIf(&v.PlateNumber, r.PlateNumber)
	setIf(&v.Type, r.Type)
	setIf(&v.Brand, r.Brand)
	setIf(&v.Model, r.Model)
	setIf(&v.Year, r.Year)
	setIf(&v.Odometer, r.Odometer)
	setIf(&v.LastKnownLocation, r.LastKnownLocation)
	setIf(&v.Status, r.Status)
	setIf(&v.FuelType, r.FuelType)
	setIf(&v.VIN, r.VIN)
	if r.InsuranceExpiry != nil {
		v.InsuranceExpiry = r.InsuranceExpiry
	}
	if r.RegistrationExpiry != nil {
		v.RegistrationExpiry = r.RegistrationExpiry
	}
}
