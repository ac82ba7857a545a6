package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// CreateBlockedSlotRequest запрос на блокировку дня или интервала
type CreateBlockedSlotRequest struct {
	BlockedDate string  `json:"blockedDate"`         // "YYYY-MM-DD"
	StartTime   *string `json:"startTime,omitempty"` // "HH:MM", игнорируется для полного дня
	EndTime     *string `json:"endTime,omitempty"`   // "HH:MM", не включается в блокировку
	IsFullDay   bool    `json:"isFullDay"`
	Reason      *string `json:"reason,omitempty"`
}

// ListBlockedSlotsRequest запрос на список блокировок за период (включительно)
type ListBlockedSlotsRequest struct {
	From time.Time
	To   time.Time
}

// BlockedSlotResponse ответ с данными блокировки
type BlockedSlotResponse struct {
	ID          uuid.UUID `json:"id"`
	BlockedDate string    `json:"blockedDate"`
	StartTime   *string   `json:"startTime,omitempty"`
	EndTime     *string   `json:"endTime,omitempty"`
	IsFullDay   bool      `json:"isFullDay"`
	Reason      *string   `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BlockedSlotListResponse ответ со списком блокировок
type BlockedSlotListResponse struct {
	BlockedSlots []BlockedSlotResponse `json:"blockedSlots"`
}

// FromDomainBlockedSlot конвертирует domain модель в DTO
func FromDomainBlockedSlot(b *domain.BlockedSlot) *BlockedSlotResponse {
	if b == nil {
		return nil
	}

	resp := &BlockedSlotResponse{
		ID:          b.ID,
		BlockedDate: b.BlockedDate.Format(domain.DateFormat),
		IsFullDay:   b.IsFullDay,
		Reason:      b.Reason,
		CreatedAt:   b.CreatedAt,
	}

	if !b.IsFullDay {
		start, end := b.StartTime.String(), b.EndTime.String()
		resp.StartTime = &start
		resp.EndTime = &end
	}

	return resp
}

// FromDomainBlockedSlotList конвертирует список domain моделей в DTO
func FromDomainBlockedSlotList(blocks []*domain.BlockedSlot) *BlockedSlotListResponse {
	resp := &BlockedSlotListResponse{
		BlockedSlots: make([]BlockedSlotResponse, 0, len(blocks)),
	}

	for _, b := range blocks {
		if item := FromDomainBlockedSlot(b); item != nil {
			resp.BlockedSlots = append(resp.BlockedSlots, *item)
		}
	}

	return resp
}
