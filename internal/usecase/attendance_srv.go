package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-checkin/internal/clock"
	"event-checkin/internal/data/entity"
	"event-checkin/internal/data/repository"
	"event-checkin/internal/dto/request"
	"event-checkin/internal/dto/response"
	"event-checkin/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, eventID string, req *request.AttendanceRequest) (*response.RegistrationResponse, error)
	CheckOut(ctx context.Context, eventID string, req *request.AttendanceRequest) (*response.RegistrationResponse, error)
}

type attendanceService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewAttendanceService(repo *repository.Repository, clk clock.Clock, log *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "attendance")),
	}
}

type transition int

const (
	transitionCheckIn transition = iota
	transitionCheckOut
)

func (t transition) String() string {
	if t == transitionCheckOut {
		return "check-out"
	}
	return "check-in"
}

// target is the attendee a request points at.
type target struct {
	eventID        uuid.UUID
	email          string
	registrationID uuid.UUID
}

func (s *attendanceService) CheckIn(ctx context.Context, eventID string, req *request.AttendanceRequest) (*response.RegistrationResponse, error) {
	return s.run(ctx, eventID, req, transitionCheckIn)
}

func (s *attendanceService) CheckOut(ctx context.Context, eventID string, req *request.AttendanceRequest) (*response.RegistrationResponse, error) {
	return s.run(ctx, eventID, req, transitionCheckOut)
}

func (s *attendanceService) run(ctx context.Context, eventID string, req *request.AttendanceRequest, kind transition) (*response.RegistrationResponse, error) {
	reg, err := s.apply(ctx, eventID, req, kind)
	if err != nil {
		if isAttendanceRejection(err) {
			s.log.Warn("Attendance rejected",
				zap.String("transition", kind.String()),
				zap.String("event_id", eventID),
				zap.Error(err),
			)
		} else {
			s.log.Error("Attendance failed",
				zap.String("transition", kind.String()),
				zap.String("event_id", eventID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	s.log.Info("Attendance recorded",
		zap.String("transition", kind.String()),
		zap.String("event_id", eventID),
		zap.String("registration_id", reg.ID.String()),
	)

	resp := response.RegistrationToResponse(reg)
	return &resp, nil
}

func (s *attendanceService) apply(ctx context.Context, eventID string, req *request.AttendanceRequest, kind transition) (*entity.Registration, error) {
	req.Email = normalizeEmail(req.Email)
	req.RegistrationID = strings.TrimSpace(req.RegistrationID)
	req.OTP = strings.TrimSpace(req.OTP)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	codeOnly := req.Email == "" && req.RegistrationID == ""
	if codeOnly && kind == transitionCheckIn {
		return nil, newValidationError(map[string]string{"email": "email or registrationId is required"})
	}

	event, err := findEvent(ctx, s.repo, eventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	var tgt target
	if codeOnly {
		tgt, err = s.redeemCode(ctx, event.ID, req.OTP, now)
	} else {
		tgt, err = s.redeemFor(ctx, event.ID, req, kind, now)
	}
	if err != nil {
		return nil, err
	}

	var reg *entity.Registration
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		locked, err := s.lockTarget(txCtx, tgt)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrRegistrationNotFound
		}
		reg = locked

		if err := advance(reg, kind, now); err != nil {
			return err
		}
		return s.repo.Registration.UpdateAttendance(txCtx, reg)
	})
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// redeemFor resolves the addressed attendee, then consumes a code issued to
// their email. The code is consumed in its own statement and stays used even
// if the transition is rejected afterwards.
func (s *attendanceService) redeemFor(ctx context.Context, eventID uuid.UUID, req *request.AttendanceRequest, kind transition, now time.Time) (target, error) {
	tgt, err := s.resolve(ctx, eventID, req, kind)
	if err != nil {
		return tgt, err
	}

	otp, err := s.repo.OTP.Consume(ctx, eventID, tgt.email, req.OTP, now)
	if err != nil {
		return tgt, fmt.Errorf("consume otp: %w", err)
	}
	if otp == nil {
		return tgt, ErrInvalidOrExpiredOTP
	}
	return tgt, nil
}

// redeemCode consumes a code by value alone; its email names the attendee.
func (s *attendanceService) redeemCode(ctx context.Context, eventID uuid.UUID, code string, now time.Time) (target, error) {
	otp, err := s.repo.OTP.ConsumeByCode(ctx, eventID, code, now)
	if err != nil {
		return target{}, fmt.Errorf("consume otp: %w", err)
	}
	if otp == nil {
		return target{}, ErrInvalidOrExpiredOTP
	}
	return target{eventID: eventID, email: otp.Email}, nil
}

// resolve finds the email the OTP must match. A check-out aimed at a
// registration that is not checked in fails before any code is spent.
func (s *attendanceService) resolve(ctx context.Context, eventID uuid.UUID, req *request.AttendanceRequest, kind transition) (target, error) {
	tgt := target{eventID: eventID, email: req.Email}

	var (
		reg *entity.Registration
		err error
	)
	if req.RegistrationID != "" {
		regID, perr := uuid.Parse(req.RegistrationID)
		if perr != nil {
			return tgt, ErrRegistrationNotFound
		}
		reg, err = s.repo.Registration.FindByID(ctx, eventID, regID)
		if err != nil {
			return tgt, fmt.Errorf("get registration %s: %w", req.RegistrationID, err)
		}
		if reg == nil {
			return tgt, ErrRegistrationNotFound
		}
	} else {
		reg, err = s.repo.Registration.FindByEmail(ctx, eventID, req.Email)
		if err != nil {
			return tgt, fmt.Errorf("find registration by email: %w", err)
		}
	}

	// unknown email: the OTP is still checked first
	if reg == nil {
		return tgt, nil
	}
	if kind == transitionCheckOut && !reg.CheckedIn {
		return tgt, ErrCheckInRequired
	}

	tgt.email = reg.Email
	tgt.registrationID = reg.ID
	return tgt, nil
}

func (s *attendanceService) lockTarget(ctx context.Context, tgt target) (*entity.Registration, error) {
	regID := tgt.registrationID
	if regID == uuid.Nil {
		reg, err := s.repo.Registration.FindByEmail(ctx, tgt.eventID, tgt.email)
		if err != nil {
			return nil, fmt.Errorf("find registration by email: %w", err)
		}
		if reg == nil {
			return nil, nil
		}
		regID = reg.ID
	}

	reg, err := s.repo.Registration.FindByIDForUpdate(ctx, tgt.eventID, regID)
	if err != nil {
		return nil, fmt.Errorf("lock registration %s: %w", regID, err)
	}
	return reg, nil
}

// advance moves reg one step forward; there are no back-transitions.
func advance(reg *entity.Registration, kind transition, now time.Time) error {
	switch kind {
	case transitionCheckIn:
		if reg.CheckedIn {
			return ErrAlreadyCheckedIn
		}
		reg.CheckedIn = true
		reg.CheckInTime = &now
	case transitionCheckOut:
		if !reg.CheckedIn {
			return ErrCheckInRequired
		}
		if reg.CheckedOut {
			return ErrAlreadyCheckedOut
		}
		reg.CheckedOut = true
		reg.CheckOutTime = &now
	}
	return nil
}

func isAttendanceRejection(err error) bool {
	for _, target := range []error{
		ErrValidation,
		ErrEventNotFound,
		ErrRegistrationNotFound,
		ErrInvalidOrExpiredOTP,
		ErrAlreadyCheckedIn,
		ErrAlreadyCheckedOut,
		ErrCheckInRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
