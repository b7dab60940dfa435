package service

import (
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/access"
	"reviewhub/internal/apperr"
)

// requirePermission runs the evaluator and maps a Deny to the error
// taxonomy: anonymous actors get an authentication error, known actors a
// permission error. The evaluator itself never learns whether the
// resource exists, so 403 stays distinguishable from 404.
func requirePermission(actor access.Actor, method access.Method, kind access.Kind, resource access.Owned) error {
	if access.Evaluate(actor, method, kind, resource).Allowed() {
		return nil
	}
	if !actor.IsAuthenticated() {
		return apperr.ErrUnauthenticated
	}
	return apperr.ErrPermissionDenied
}

// asNotFound converts a missing-record error from the store into the
// taxonomy's NotFound; anything else passes through.
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}
