package stock_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/repository"
)

// fakeStore es un almacén de registros en memoria para los tests de los
// casos de uso (mismo contrato que el adaptador PostgreSQL).
type fakeStore struct {
	mu      sync.Mutex
	seq     int
	records []*entity.StockRecord

	failCreate bool // simula la caída del almacén en el append
}

func newFakeStore() *fakeStore { return &fakeStore{} }

func (s *fakeStore) List(_ context.Context, filter repository.RecordFilter) ([]*entity.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.StockRecord, 0, len(s.records))
	for _, rec := range s.records {
		if filter.Direction != "" && rec.Direction != filter.Direction {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*entity.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeStore) Create(_ context.Context, record *entity.StockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return fmt.Errorf("almacén caído")
	}
	s.seq++
	if record.ID == "" {
		record.ID = fmt.Sprintf("rec-%03d", s.seq)
	}
	cp := *record
	s.records = append(s.records, &cp)
	return nil
}

func (s *fakeStore) UpdateMeta(_ context.Context, id, encodedMeta string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			rec.EncodedMeta = encodedMeta
			return nil
		}
	}
	return fmt.Errorf("update meta: id %s no existe", id)
}

// fakeTxRunner ejecuta el callback directamente sobre el almacén en
// memoria (sin semántica de rollback; los tests de fallo parcial solo
// verifican que el error se propaga).
type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(records repository.StockRecordRepository) error) error {
	return fn(r.store)
}
