package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	clientRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/client"
)

// ClientRepository клиенты в памяти, уникальные по нормализованному email
type ClientRepository struct {
	store *Store
}

// Upsert находит клиента по email или создает нового
func (r *ClientRepository) Upsert(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := domain.NormalizeEmail(client.Email)
	if id, ok := r.store.clientEmails[email]; ok {
		copied := *r.store.clients[id]
		return &copied, nil
	}

	return r.insert(ctx, &domain.Client{Name: client.Name, Email: email, Phone: client.Phone}), nil
}

// Create создает клиента; занятый email возвращает ErrEmailExists
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := domain.NormalizeEmail(client.Email)
	if _, ok := r.store.clientEmails[email]; ok {
		return nil, fmt.Errorf("%w: %s", clientRepo.ErrEmailExists, email)
	}

	return r.insert(ctx, &domain.Client{Name: client.Name, Email: email, Phone: client.Phone, Notes: client.Notes}), nil
}

// GetByID получает клиента по ID
func (r *ClientRepository) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.clients[id]
	if !ok {
		return nil, clientRepo.ErrClientNotFound
	}
	copied := *c
	return &copied, nil
}

// List возвращает клиентов, новые первыми
func (r *ClientRepository) List(_ context.Context, filter domain.ClientsFilter) ([]*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Client, 0, len(r.store.clients))
	for _, c := range r.store.clients {
		if c.Archived && !filter.IncludeArchived {
			continue
		}
		copied := *c
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Update сохраняет изменяемые поля клиента
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.clients[client.ID]
	if !ok {
		return nil, clientRepo.ErrClientNotFound
	}

	email := domain.NormalizeEmail(client.Email)
	if owner, taken := r.store.clientEmails[email]; taken && owner != c.ID {
		return nil, fmt.Errorf("%w: %s", clientRepo.ErrEmailExists, email)
	}

	prev := *c
	delete(r.store.clientEmails, prev.Email)
	r.store.clientEmails[email] = c.ID

	c.Name = client.Name
	c.Email = email
	c.Phone = client.Phone
	c.Notes = client.Notes
	c.Archived = client.Archived
	c.UpdatedAt = r.store.now()

	record(ctx, func() {
		delete(r.store.clientEmails, email)
		r.store.clientEmails[prev.Email] = prev.ID
		*c = prev
	})

	copied := *c
	return &copied, nil
}

// TouchLastSession записывает время окончания последней проведенной сессии
func (r *ClientRepository) TouchLastSession(ctx context.Context, id int64, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.clients[id]
	if !ok {
		return clientRepo.ErrClientNotFound
	}

	prev := c.LastSessionAt
	c.LastSessionAt = &at
	record(ctx, func() { c.LastSessionAt = prev })

	return nil
}

// insert вызывается под store.mu
func (r *ClientRepository) insert(ctx context.Context, client *domain.Client) *domain.Client {
	r.store.nextClientID++
	now := r.store.now()

	created := *client
	created.ID = r.store.nextClientID
	created.CreatedAt = now
	created.UpdatedAt = now

	r.store.clients[created.ID] = &created
	r.store.clientEmails[created.Email] = created.ID
	record(ctx, func() {
		delete(r.store.clients, created.ID)
		delete(r.store.clientEmails, created.Email)
	})

	copied := created
	return &copied
}
