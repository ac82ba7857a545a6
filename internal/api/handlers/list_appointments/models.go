package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// from, to (YYYY-MM-DD, включительно), status, includeInactive
func ToServiceRequest(query url.Values) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{}

	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from value: %w", err)
		}
		req.StartDate = &from
	}

	if toStr := query.Get("to"); toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to value: %w", err)
		}
		req.EndDate = &to
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
