package order

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"labprobe/client"
	"labprobe/config"
	"labprobe/models"
	"labprobe/utils"
)

const (
	pollInterval = 3 * time.Second
	pollBudget   = 2 * time.Minute
)

// assignOrder hands the order to the logged-in phlebotomist and checks the
// backend recorded the assignment.
func (o *DefaultOrderService) assignOrder(ctx context.Context, session *models.CustomerSession) error {
	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathAssignOrder,
		Token:  session.PhleboToken,
		Body: map[string]string{
			"order_guid":  session.OrderGUID,
			"phlebo_guid": session.PhleboGUID,
		},
	})
	if err != nil {
		return fmt.Errorf("assign order: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	var reply struct {
		UpdatedOrder models.OrderTrackingRecord `json:"updatedOrder"`
	}
	if env.HasData() {
		if err := env.Object(&reply); err != nil {
			return fmt.Errorf("parse assignment reply: %w", err)
		}
		if reply.UpdatedOrder.PhleboGUID != "" && reply.UpdatedOrder.PhleboGUID != session.PhleboGUID {
			return &ValidationError{Field: "assigned phlebotomist", Expected: session.PhleboGUID, Actual: reply.UpdatedOrder.PhleboGUID}
		}
		if reply.UpdatedOrder.OrderGUID != "" && reply.UpdatedOrder.OrderGUID != session.OrderGUID {
			return &ValidationError{Field: "assigned order", Expected: session.OrderGUID, Actual: reply.UpdatedOrder.OrderGUID}
		}
		if reply.UpdatedOrder.GUID != "" {
			session.TrackingID = reply.UpdatedOrder.GUID
		}
	}
	return nil
}

// awaitStatus polls the tracking feed until the order reaches the wanted
// lifecycle state or the budget runs out.
func (o *DefaultOrderService) awaitStatus(ctx context.Context, session *models.CustomerSession, want models.TrackingStatus) error {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(ctx, pollBudget)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		record, err := o.fetchTracking(ctx, session)
		if err != nil {
			logger.Warn("tracking poll failed",
				zap.String("actor", string(session.Actor)),
				zap.Error(err))
		} else {
			got := record.NormalizedStatus()
			if got.AtLeast(want) {
				logger.Info("tracking status reached",
					zap.String("actor", string(session.Actor)),
					zap.String("status", string(got)))
				return nil
			}
			logger.Debug("tracking status pending",
				zap.String("want", string(want)),
				zap.String("got", string(got)))
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for status %q: %w", want, ErrPollTimeout)
		case <-ticker.C:
		}
	}
}

// startPickup flips the order to inprogress with the phlebotomist positioned
// at the collection address.
func (o *DefaultOrderService) startPickup(ctx context.Context, session *models.CustomerSession) error {
	return o.updateTracking(ctx, session, map[string]string{
		"order_guid":  session.OrderGUID,
		"phlebo_guid": session.PhleboGUID,
		"status":      string(models.StatusInProgress),
		"pickup_lat":  session.AddressLat,
		"pickup_lng":  session.AddressLng,
		"start_lat":   session.AddressLat,
		"start_lng":   session.AddressLng,
		"current_lat": session.AddressLat,
		"current_lng": session.AddressLng,
	})
}

// verifyAssignment re-reads the order document itself and confirms it is
// still pinned to our phlebotomist.
func (o *DefaultOrderService) verifyAssignment(ctx context.Context, session *models.CustomerSession) error {
	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathGetOrderByID + session.OrderGUID,
		Token:  session.PhleboToken,
	})
	if err != nil {
		return fmt.Errorf("fetch order: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	var doc struct {
		GUID       string `json:"guid"`
		PhleboGUID string `json:"phlebo_guid"`
	}
	if err := env.Object(&doc); err != nil {
		return fmt.Errorf("parse order: %w", err)
	}
	if doc.PhleboGUID != "" && doc.PhleboGUID != session.PhleboGUID {
		return &ValidationError{Field: "order phlebotomist", Expected: session.PhleboGUID, Actual: doc.PhleboGUID}
	}
	return nil
}

// adminVerifyOTP performs the collection handshake with the static test code.
func (o *DefaultOrderService) adminVerifyOTP(ctx context.Context, session *models.CustomerSession) error {
	_, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathAdminVerifyOTP,
		Token:  session.PhleboToken,
		Body: map[string]string{
			"order_guid": session.OrderGUID,
			"otp":        config.AppConfig.StaticOTP,
		},
	})
	if err != nil {
		return fmt.Errorf("verify collection otp: %w", err)
	}
	return nil
}

// pickSampleType fetches the sample type list and picks one at random, the
// way a phlebotomist would record whatever tube they drew.
func (o *DefaultOrderService) pickSampleType(ctx context.Context, session *models.CustomerSession) error {
	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathSampleTypes,
		Token:  session.PhleboToken,
	})
	if err != nil {
		return fmt.Errorf("fetch sample types: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return err
	}
	var types []struct {
		GUID string `json:"guid"`
		Name string `json:"name"`
	}
	if err := env.List(&types); err != nil {
		return fmt.Errorf("parse sample types: %w", err)
	}
	if len(types) == 0 {
		return fmt.Errorf("backend returned no sample types")
	}

	picked := utils.RandomPick(types)
	session.SampleType = picked.Name
	if session.SampleType == "" {
		session.SampleType = picked.GUID
	}
	utils.GetLogger().Info("sample type picked", zap.String("sample_type", session.SampleType))
	return nil
}

// collectSamples marks the order's samples as collected.
func (o *DefaultOrderService) collectSamples(ctx context.Context, session *models.CustomerSession) error {
	return o.updateTracking(ctx, session, map[string]string{
		"order_guid":  session.OrderGUID,
		"phlebo_guid": session.PhleboGUID,
		"status":      string(models.StatusSamplesCollected),
		"sample_type": session.SampleType,
	})
}

func (o *DefaultOrderService) updateTracking(ctx context.Context, session *models.CustomerSession, body map[string]string) error {
	_, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodPost,
		Path:   client.PathUpdateTracking,
		Token:  session.PhleboToken,
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("update tracking to %q: %w", body["status"], err)
	}
	return nil
}

func (o *DefaultOrderService) fetchTracking(ctx context.Context, session *models.CustomerSession) (models.OrderTrackingRecord, error) {
	resp, err := o.Exec.Do(ctx, client.Request{
		Method: http.MethodGet,
		Path:   client.PathTrackingStatus + session.OrderGUID,
		Token:  session.PhleboToken,
	})
	if err != nil {
		return models.OrderTrackingRecord{}, fmt.Errorf("fetch tracking: %w", err)
	}

	env, err := resp.Envelope()
	if err != nil {
		return models.OrderTrackingRecord{}, err
	}
	var record models.OrderTrackingRecord
	if err := env.Object(&record); err != nil {
		// The feed sometimes wraps the record in a single-element array.
		var records []models.OrderTrackingRecord
		if lerr := env.List(&records); lerr != nil || len(records) == 0 {
			return models.OrderTrackingRecord{}, fmt.Errorf("parse tracking record: %w", err)
		}
		record = records[0]
	}
	return record, nil
}
