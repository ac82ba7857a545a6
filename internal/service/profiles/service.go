package profiles

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	profileRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/profile"
	"github.com/m04kA/SMC-DetailingService/internal/service/profiles/models"
)

// DefaultRegion регион для номеров без международного префикса
const DefaultRegion = "BR"

// Service сервис профилей клиентов
type Service struct {
	profileRepo ProfileRepository
	region      string
	logger      Logger
}

// NewService создает новый экземпляр сервиса профилей
func NewService(profileRepo ProfileRepository, region string, logger Logger) *Service {
	if region == "" {
		region = DefaultRegion
	}
	return &Service{
		profileRepo: profileRepo,
		region:      region,
		logger:      logger,
	}
}

// Get профиль текущего пользователя
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*models.ProfileResponse, error) {
	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profileRepo.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("Get: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfile(p), nil
}

// Upsert создает или перезаписывает профиль пользователя
// Телефон сохраняется в E.164, номерной знак в верхнем регистре
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, req *models.UpsertProfileRequest) (*models.ProfileResponse, error) {
	s.logger.Info("Upsert: saving profile for user=%s", userID)

	p, err := s.toDomainProfile(userID, req)
	if err != nil {
		s.logger.Warn("Upsert: validation failed for user=%s: %v", userID, err)
		return nil, err
	}

	saved, err := s.profileRepo.Upsert(ctx, p)
	if err != nil {
		s.logger.Error("Upsert: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfile(saved), nil
}

// ListClients все профили, новые первыми (для администратора)
func (s *Service) ListClients(ctx context.Context) (*models.ProfileListResponse, error) {
	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListClients: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListClients - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProfileList(profiles), nil
}

func (s *Service) toDomainProfile(userID uuid.UUID, req *models.UpsertProfileRequest) (*domain.Profile, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" || len(fullName) > domain.MaxProfileFieldLength {
		return nil, fmt.Errorf("%w: fullName must be between 1 and %d characters", ErrInvalidInput, domain.MaxProfileFieldLength)
	}

	p := &domain.Profile{
		UserID:       userID,
		FullName:     fullName,
		VehicleModel: optional(req.VehicleModel),
		VehicleColor: optional(req.VehicleColor),
		VehiclePlate: optional(req.VehiclePlate),
	}

	for _, field := range []*string{p.VehicleModel, p.VehicleColor, p.VehiclePlate} {
		if field != nil && len(*field) > domain.MaxProfileFieldLength {
			return nil, fmt.Errorf("%w: vehicle fields must be at most %d characters", ErrInvalidInput, domain.MaxProfileFieldLength)
		}
	}

	if p.VehiclePlate != nil {
		plate := strings.ToUpper(*p.VehiclePlate)
		p.VehiclePlate = &plate
	}

	if phone := optional(req.Phone); phone != nil {
		normalized, err := NormalizePhone(*phone, s.region)
		if err != nil {
			return nil, err
		}
		p.Phone = &normalized
	}

	if email := optional(req.Email); email != nil {
		addr, err := mail.ParseAddress(*email)
		if err != nil || addr.Address != *email {
			return nil, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		p.Email = email
	}

	return p, nil
}

// NormalizePhone приводит номер к E.164, номера без "+" разбираются в регионе region
func NormalizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// optional обрезает пробелы, пустая строка превращается в nil
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
