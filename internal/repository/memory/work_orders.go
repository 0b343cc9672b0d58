package memory

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

type workOrderRepo struct{ s *Store }

func matchWorkOrder(f model.WorkOrderFilter, wo *model.WorkOrder) bool {
	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, wo.Status) {
		return false
	}
	if f.AssetID != "" && wo.AssetID != f.AssetID {
		return false
	}
	if f.Priority != "" && wo.Priority != f.Priority {
		return false
	}
	if f.AssignedTo != "" && wo.AssignedTo != f.AssignedTo {
		return false
	}
	if f.DueFrom != nil && wo.DueDate.Before(*f.DueFrom) {
		return false
	}
	if f.DueTo != nil && wo.DueDate.After(*f.DueTo) {
		return false
	}
	return true
}

func (r workOrderRepo) List(_ context.Context, f model.WorkOrderFilter) ([]*model.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.workOrders.list(func(wo *model.WorkOrder) bool { return matchWorkOrder(f, wo) }), nil
}

func (r workOrderRepo) GetByID(_ context.Context, id string) (*model.WorkOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.workOrders.get(id)
}

func (r workOrderRepo) Create(_ context.Context, wo *model.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.workOrders.insert(wo)
}

func (r workOrderRepo) Update(_ context.Context, wo *model.WorkOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.workOrders.update(wo)
}

func (r workOrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.workOrders.remove(id)
}

func (r workOrderRepo) UpdateStatus(_ context.Context, id string, status model.WorkOrderStatus) (*model.WorkOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wo, err := r.s.workOrders.get(id)
	if err != nil {
		return nil, err
	}
	wo.Status = status
	if status == model.WorkOrderCompleted {
		wo.CompletedDate = model.DatePtr(model.DateOf(time.Now().UTC()))
	}
	if err := r.s.workOrders.update(wo); err != nil {
		return nil, err
	}
	return wo, nil
}
