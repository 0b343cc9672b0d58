package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

type assetRepo struct{ s *Store }

func matchAsset(f model.AssetFilter, a *model.Asset) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return contains(f.Query, a.Name, a.Code, a.Category, a.Location)
}

func (r assetRepo) List(_ context.Context, f model.AssetFilter) ([]*model.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.assets.list(func(a *model.Asset) bool { return matchAsset(f, a) }), nil
}

func (r assetRepo) GetByID(_ context.Context, id string) (*model.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.assets.get(id)
}

func (r assetRepo) GetByCode(_ context.Context, code string) (*model.Asset, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.assets.find(func(a *model.Asset) bool { return strings.EqualFold(a.Code, code) })
}

func (r assetRepo) Create(_ context.Context, a *model.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.assets.insert(a)
}

func (r assetRepo) Update(_ context.Context, a *model.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.assets.update(a)
}

func (r assetRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.assets.remove(id)
}

func (r assetRepo) Categories(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	categories := lo.Uniq(lo.Map(r.s.assets.list(nil), func(a *model.Asset, _ int) string { return a.Category }))
	slices.Sort(categories)
	return categories, nil
}
