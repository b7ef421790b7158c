package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hardwario/tapper/internal/device"
	"github.com/hardwario/tapper/internal/logger"
	"go.uber.org/zap"
)

// RequestQueueTimeout bounds how long the processor waits on an empty
// inbound queue before re-checking the shutdown signal.
const RequestQueueTimeout = 100 * time.Millisecond

// request is the inbound control message shape from spec §3.
type request struct {
	ID       json.RawMessage `json:"id"`
	Output   json.RawMessage `json:"output"`
	Visual   json.RawMessage `json:"visual"`
	Acoustic json.RawMessage `json:"acoustic"`
}

type outputAction struct {
	Command  string  `json:"command"`
	Duration float64 `json:"duration"`
}

type visualAction struct {
	State   string `json:"state"`
	Pattern string `json:"pattern"`
}

type acousticAction struct {
	Pattern string `json:"pattern"`
}

// RequestProcessor consumes remote control requests from the inbound queue
// and executes output/visual/acoustic sub-actions in that fixed order.
func RequestProcessor(ctx context.Context, dev *device.Device) {
	log := logger.WithComponent("request_processor")
	inbound := dev.Inbound()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-inbound:
			if !ok {
				return
			}
			handleRequest(dev, log, raw)
		case <-time.After(RequestQueueTimeout):
		}
	}
}

func handleRequest(dev *device.Device, log *zap.Logger, raw string) {
	var req request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		log.Warn("malformed control request", zap.Error(err))
		dev.Schedule("control/response", map[string]interface{}{
			"id":     nil,
			"result": "error",
			"error":  fmt.Sprintf("malformed request: %v", err),
		})
		return
	}

	var id interface{}
	if len(req.ID) > 0 {
		if err := json.Unmarshal(req.ID, &id); err != nil {
			id = nil
		}
	}

	if err := runSubActions(dev, req); err != nil {
		log.Warn("control request failed", zap.Any("id", id), zap.Error(err))
		dev.Schedule("control/response", map[string]interface{}{
			"id":     id,
			"result": "error",
			"error":  err.Error(),
		})
		return
	}

	dev.Schedule("control/response", map[string]interface{}{
		"id":     id,
		"result": "success",
	})
}

func runSubActions(dev *device.Device, req request) error {
	if len(req.Output) > 0 {
		var a outputAction
		if err := json.Unmarshal(req.Output, &a); err != nil {
			return err
		}
		if err := runOutput(dev, a); err != nil {
			return err
		}
	}
	if len(req.Visual) > 0 {
		var a visualAction
		if err := json.Unmarshal(req.Visual, &a); err != nil {
			return err
		}
		if err := runVisual(dev, a); err != nil {
			return err
		}
	}
	if len(req.Acoustic) > 0 {
		var a acousticAction
		if err := json.Unmarshal(req.Acoustic, &a); err != nil {
			return err
		}
		if err := runAcoustic(dev, a); err != nil {
			return err
		}
	}
	return nil
}

func runOutput(dev *device.Device, a outputAction) error {
	switch a.Command {
	case "activate":
		return dev.SetRelay(true)
	case "deactivate":
		return dev.SetRelay(false)
	case "pulse":
		return dev.PulseRelay(time.Duration(a.Duration * float64(time.Second)))
	default:
		// Unknown command: silently do nothing, still success.
		return nil
	}
}

func runVisual(dev *device.Device, a visualAction) error {
	if a.State != "" {
		if a.State == "off" {
			return dev.SetLED(device.ColorOff)
		}
		parts := strings.SplitN(a.State, "/", 2)
		if len(parts) == 2 && parts[0] == "on" {
			return dev.SetLED(device.Color(parts[1]))
		}
		return nil
	}
	if a.Pattern != "" {
		parts := strings.SplitN(a.Pattern, "/", 2)
		if len(parts) != 2 {
			return nil
		}
		name, color := parts[0], device.Color(parts[1])
		dev.LEDGuard().Lock()
		defer dev.LEDGuard().Unlock()
		return device.RunPattern(name, dev.LEDActuator(color))
	}
	return nil
}

func runAcoustic(dev *device.Device, a acousticAction) error {
	if a.Pattern == "" {
		return nil
	}
	dev.BuzzerGuard().Lock()
	defer dev.BuzzerGuard().Unlock()
	return device.RunPattern(a.Pattern, dev.Buzzer())
}
