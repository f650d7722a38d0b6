package clients

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/m04kA/SMC-CoachBooking/internal/domain"
	clientRepo "github.com/m04kA/SMC-CoachBooking/internal/infra/storage/client"
	bookingModels "github.com/m04kA/SMC-CoachBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CoachBooking/internal/service/clients/models"
)

const (
	maxNameLength  = 255
	maxPhoneLength = 50
)

// Service справочник клиентов тренера
type Service struct {
	clientRepo   ClientRepository
	bookingRepo  BookingRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(
	clientRepo ClientRepository,
	bookingRepo BookingRepository,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		clientRepo:   clientRepo,
		bookingRepo:  bookingRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// List возвращает клиентов, новые первыми; архивные только по запросу
func (s *Service) List(ctx context.Context, req *models.ListClientsRequest) (*models.ClientListResponse, error) {
	list, err := s.clientRepo.List(ctx, domain.ClientsFilter{IncludeArchived: req.IncludeArchived})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.ClientListResponse{
		Clients: make([]models.ClientResponse, 0, len(list)),
		Total:   len(list),
	}
	for _, c := range list {
		resp.Clients = append(resp.Clients, models.FromDomain(c, s.location))
	}

	return resp, nil
}

// Get возвращает карточку клиента; withStats добавляет счетчики сессий
func (s *Service) Get(ctx context.Context, id int64, withStats bool) (*models.ClientResponse, error) {
	client, err := s.getClient(ctx, "Get", id)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomain(client, s.location)
	if !withStats {
		return &resp, nil
	}

	bookings, err := s.clientBookings(ctx, id)
	if err != nil {
		s.logger.Error("Get: failed to count sessions of client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	items := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, &b.Booking)
	}
	stats := domain.CountSessions(items, s.timeProvider.Now())
	resp.Stats = &models.ClientStats{
		TotalSessions:    stats.TotalSessions,
		UpcomingSessions: stats.UpcomingSessions,
	}

	return &resp, nil
}

// Create заводит клиента вручную; email должен быть свободен
func (s *Service) Create(ctx context.Context, req *models.CreateClientRequest) (*models.ClientResponse, error) {
	client := &domain.Client{
		Name:  strings.TrimSpace(req.Name),
		Email: domain.NormalizeEmail(req.Email),
		Phone: req.Phone,
		Notes: req.Notes,
	}
	if err := validateClient(client); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, clientRepo.ErrEmailExists) {
			s.logger.Warn("Create: email %s is already used", client.Email)
			return nil, ErrEmailExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: client id=%d created (email=%s)", created.ID, created.Email)

	resp := models.FromDomain(created, s.location)
	return &resp, nil
}

// Update изменяет переданные поля клиента
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateClientRequest) (*models.ClientResponse, error) {
	current, err := s.getClient(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.Name != nil {
		next.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		next.Email = domain.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		next.Phone = req.Phone
	}
	if req.Notes != nil {
		next.Notes = req.Notes
	}
	if req.Archived != nil {
		next.Archived = *req.Archived
	}

	if err := validateClient(&next); err != nil {
		s.logger.Warn("Update: validation failed for client id=%d: %v", id, err)
		return nil, err
	}

	return s.save(ctx, "Update", &next)
}

// Archive скрывает клиента из списка по умолчанию
func (s *Service) Archive(ctx context.Context, id int64) (*models.ClientResponse, error) {
	return s.SetArchived(ctx, id, true)
}

// Unarchive возвращает клиента в список
func (s *Service) Unarchive(ctx context.Context, id int64) (*models.ClientResponse, error) {
	return s.SetArchived(ctx, id, false)
}

// SetArchived меняет признак архива; повторный вызов с тем же значением не ошибка
func (s *Service) SetArchived(ctx context.Context, id int64, archived bool) (*models.ClientResponse, error) {
	current, err := s.getClient(ctx, "SetArchived", id)
	if err != nil {
		return nil, err
	}

	if current.Archived == archived {
		resp := models.FromDomain(current, s.location)
		return &resp, nil
	}

	next := *current
	next.Archived = archived
	return s.save(ctx, "SetArchived", &next)
}

// Bookings история бронирований клиента, последние первыми
func (s *Service) Bookings(ctx context.Context, id int64) (*bookingModels.BookingListResponse, error) {
	if _, err := s.getClient(ctx, "Bookings", id); err != nil {
		return nil, err
	}

	list, err := s.clientBookings(ctx, id)
	if err != nil {
		s.logger.Error("Bookings: repository error for client id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Bookings - repository error: %v", ErrInternal, err)
	}
	slices.Reverse(list)

	resp := &bookingModels.BookingListResponse{
		Bookings: make([]bookingModels.BookingResponse, 0, len(list)),
		Total:    len(list),
	}
	for _, b := range list {
		resp.Bookings = append(resp.Bookings, bookingModels.FromDomain(b, s.location))
	}

	return resp, nil
}

// clientBookings все бронирования клиента по возрастанию времени начала
func (s *Service) clientBookings(ctx context.Context, id int64) ([]*domain.BookingWithClient, error) {
	return s.bookingRepo.List(ctx, domain.BookingsFilter{ClientID: &id})
}

func (s *Service) getClient(ctx context.Context, op string, id int64) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			s.logger.Warn("%s: client id=%d not found", op, id)
			return nil, ErrClientNotFound
		}
		s.logger.Error("%s: repository error for client id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return client, nil
}

func (s *Service) save(ctx context.Context, op string, client *domain.Client) (*models.ClientResponse, error) {
	updated, err := s.clientRepo.Update(ctx, client)
	if err != nil {
		switch {
		case errors.Is(err, clientRepo.ErrClientNotFound):
			s.logger.Warn("%s: client id=%d not found", op, client.ID)
			return nil, ErrClientNotFound
		case errors.Is(err, clientRepo.ErrEmailExists):
			s.logger.Warn("%s: email %s is already used", op, client.Email)
			return nil, ErrEmailExists
		default:
			s.logger.Error("%s: failed to update client id=%d: %v", op, client.ID, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
	}

	s.logger.Info("%s: client id=%d updated (archived=%t)", op, updated.ID, updated.Archived)

	resp := models.FromDomain(updated, s.location)
	return &resp, nil
}

// validateClient проверяет имя, email и телефон
func validateClient(c *domain.Client) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(c.Name) > maxNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}

	if at := strings.Index(c.Email, "@"); at <= 0 || at == len(c.Email)-1 {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, c.Email)
	}

	if c.Phone != nil && len(*c.Phone) > maxPhoneLength {
		return fmt.Errorf("%w: phone is too long", ErrInvalidInput)
	}

	return nil
}
