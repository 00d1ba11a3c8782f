package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/rxguard/rxguard/internal/errors"
	"github.com/rxguard/rxguard/internal/parser"
	"github.com/rxguard/rxguard/internal/scheduler"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"version":   "0.1.0",
		"timestamp": time.Now().Unix(),
	})
}

type analyzeRequest struct {
	Text           string `json:"text"`
	PatientSignals string `json:"patient_signals"`
	AutoReminders  bool   `json:"auto_reminders"`
}

func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	analysis := s.engine.Evaluate(parser.Parse(req.Text), req.PatientSignals)

	var created []*scheduler.Reminder
	if req.AutoReminders {
		var err error
		created, err = s.scheduler.AutoCreateFromAnalysis(analysis)
		if err != nil {
			s.logger.Error("Failed to auto-create reminders", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create reminders")
		}
	}

	return c.JSON(fiber.Map{
		"analysis":  analysis,
		"reminders": created,
	})
}

func (s *Server) handleAnalyzeImage(c *fiber.Ctx) error {
	image := c.Body()
	if len(image) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "empty image body")
	}

	extraction, err := s.extractor.ExtractText(c.Context(), image)
	if err != nil {
		s.logger.Warn("Text extraction failed", zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "text extraction failed")
	}

	signals := c.Query("patient_signals")
	analysis := s.engine.EvaluateExtraction(extraction.Text, extraction.Confidence, signals)

	return c.JSON(fiber.Map{
		"analysis":   analysis,
		"confidence": extraction.Confidence,
	})
}

type createReminderRequest struct {
	Medication string `json:"medication"`
	TimeOfDay  string `json:"time_of_day"`
	Frequency  string `json:"frequency"`
}

func (s *Server) handleCreateReminder(c *fiber.Ctx) error {
	var req createReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	reminder, err := s.scheduler.Add(req.Medication, req.TimeOfDay, scheduler.Frequency(req.Frequency))
	if err != nil {
		if apperrors.IsAppError(err) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create reminder")
	}

	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func (s *Server) handleListReminders(c *fiber.Ctx) error {
	reminders, err := s.scheduler.List()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list reminders")
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

func (s *Server) handleToggleReminder(c *fiber.Ctx) error {
	if err := s.scheduler.Toggle(c.Params("id")); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to toggle reminder")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDeleteReminder(c *fiber.Ctx) error {
	if err := s.scheduler.Delete(c.Params("id")); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete reminder")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListNotifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"events": s.dispatcher.History().Events()})
}

type phoneChangedRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) handlePhoneChanged(c *fiber.Ctx) error {
	var req phoneChangedRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.dispatcher.OnPhoneNumberChanged(req.PhoneNumber); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.SendStatus(fiber.StatusAccepted)
}
