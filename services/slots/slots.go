package slots

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"labprobe/client"
	"labprobe/models"
	"labprobe/utils"
)

const dateLayout = "2006-01-02"

func (s *DefaultSlotService) CentersForAddress(ctx context.Context, token, lat, lng string) ([]models.Center, error) {
	resp, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathCentersByAddr,
		Token:  token,
		Body: map[string]string{
			"lat": lat,
			"lng": lng,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch centers: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, nil
	}
	var centers []models.Center
	if err := env.List(&centers); err != nil {
		return nil, fmt.Errorf("parse centers: %w", err)
	}
	return centers, nil
}

func (s *DefaultSlotService) FindFirstAvailable(ctx context.Context, token, centerGUID string) (models.Slot, error) {
	logger := utils.GetLogger()

	horizon := s.HorizonDays
	if horizon <= 0 {
		horizon = 30
	}

	day := time.Now()
	for i := 0; i < horizon; i++ {
		if err := ctx.Err(); err != nil {
			return models.Slot{}, err
		}
		date := day.Format(dateLayout)

		daySlots, err := s.slotsForDate(ctx, token, centerGUID, date)
		if err != nil {
			// A bad day must not end the scan; the next date may still work.
			logger.Warn("slot lookup failed for date",
				zap.String("date", date),
				zap.Error(err))
			day = day.AddDate(0, 0, 1)
			continue
		}

		for _, slot := range daySlots {
			if slot.Available() {
				if slot.Date == "" {
					slot.Date = date
				}
				logger.Info("slot found",
					zap.String("date", slot.Date),
					zap.String("start", slot.StartTime),
					zap.Int("count", slot.Count.Int()))
				return slot, nil
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return models.Slot{}, ErrNoSlotAvailable
}

func (s *DefaultSlotService) slotsForDate(ctx context.Context, token, centerGUID, date string) ([]models.Slot, error) {
	resp, err := s.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathSlotCountByTime,
		Token:  token,
		Body: map[string]string{
			"center_guid": centerGUID,
			"date":        date,
		},
	})
	if err != nil {
		return nil, err
	}

	env, err := resp.Envelope()
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, nil
	}
	var daySlots []models.Slot
	if err := env.List(&daySlots); err != nil {
		return nil, err
	}
	return daySlots, nil
}
