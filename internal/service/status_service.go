package service

import (
	"context"
	"strings"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

type StatusService struct {
	store  repository.Store
	events Broadcaster
	stats  StatsInvalidator
}

func NewStatusService(store repository.Store, events Broadcaster, stats StatsInvalidator) *StatusService {
	return &StatusService{store: store, events: orNop(events), stats: stats}
}

type CreateStatusInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type UpdateStatusInput struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Order *int    `json:"order"`
}

type ReorderInput struct {
	Orders []domain.StatusOrder `json:"orders" binding:"required,dive"`
}

func (s *StatusService) List(ctx context.Context) ([]domain.TaskStatus, error) {
	return s.store.ListStatuses(ctx)
}

// Create appends the status after the current last one.
func (s *StatusService) Create(ctx context.Context, in CreateStatusInput) (*domain.TaskStatus, error) {
	name, color := strings.TrimSpace(in.Name), strings.TrimSpace(in.Color)
	if name == "" || color == "" {
		return nil, domain.Validation("Nombre y color son requeridos")
	}

	st := &domain.TaskStatus{Name: name, Color: color}
	if err := s.store.CreateStatus(ctx, st); err != nil {
		return nil, err
	}

	s.events.StatusCreated(st)
	invalidate(ctx, s.stats)
	return st, nil
}

func (s *StatusService) Update(ctx context.Context, id int64, in UpdateStatusInput) (*domain.TaskStatus, error) {
	var st *domain.TaskStatus
	err := s.store.InTx(ctx, func(q repository.Querier) error {
		var err error
		if st, err = q.GetStatus(ctx, id); err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.Validation("El nombre es requerido")
			}
			// renaming a default would lift its protection
			if domain.IsProtectedStatus(st.Name) && name != st.Name {
				return domain.Validation("No se pueden renombrar los estados predeterminados")
			}
			st.Name = name
		}
		if in.Color != nil {
			if color := strings.TrimSpace(*in.Color); color != "" {
				st.Color = color
			}
		}
		if in.Order != nil {
			st.Order = *in.Order
		}
		return q.UpdateStatus(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	s.events.StatusUpdated(st)
	invalidate(ctx, s.stats)
	return st, nil
}

// Delete refuses the default statuses and any status still holding tasks.
func (s *StatusService) Delete(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(q repository.Querier) error {
		st, err := q.GetStatus(ctx, id)
		if err != nil {
			return err
		}
		if domain.IsProtectedStatus(st.Name) {
			return domain.Validation("No se pueden eliminar los estados predeterminados")
		}

		n, err := q.CountTasks(ctx, repository.TaskFilter{StatusName: st.Name})
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Validation("No se puede eliminar un estado que tiene tareas asignadas")
		}
		return q.DeleteStatus(ctx, id)
	})
	if err != nil {
		return err
	}

	s.events.StatusDeleted(id)
	invalidate(ctx, s.stats)
	return nil
}

// Reorder applies every new position in one transaction. An empty list just
// returns the current order.
func (s *StatusService) Reorder(ctx context.Context, in ReorderInput) ([]domain.TaskStatus, error) {
	if in.Orders == nil {
		return nil, domain.Validation("El formato de la solicitud es inválido")
	}
	seen := make(map[int64]struct{}, len(in.Orders))
	for _, o := range in.Orders {
		if o.ID <= 0 {
			return nil, domain.Validation("El formato de la solicitud es inválido")
		}
		if _, dup := seen[o.ID]; dup {
			return nil, domain.Validation("El formato de la solicitud es inválido")
		}
		seen[o.ID] = struct{}{}
	}

	var statuses []domain.TaskStatus
	err := s.store.InTx(ctx, func(q repository.Querier) error {
		for _, o := range in.Orders {
			if err := q.SetStatusOrder(ctx, o.ID, o.Order); err != nil {
				return err
			}
		}
		var err error
		statuses, err = q.ListStatuses(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.StatusesReordered(statuses)
	invalidate(ctx, s.stats)
	return statuses, nil
}
