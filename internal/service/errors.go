package service

import (
	"errors"
	"fmt"

	"storyverse-server/shared/models"
)

// Error - ошибка сервиса с сообщением для клиента.
// Kind - общая ошибка из models (ErrNotFound, ErrBadRequest, ...), по ней хендлер выбирает HTTP статус.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrProgressNotFound  = newError(models.ErrNotFound, "Player progress not found")
	ErrContentNotFound   = newError(models.ErrNotFound, "Story content not found")
	ErrInventoryNotFound = newError(models.ErrNotFound, "User inventory not found")
	ErrNextSceneNotFound = newError(models.ErrNotFound, "Next scene not found")
	ErrSceneNotFound     = newError(models.ErrNotFound, "Scene not found")

	ErrNotEnoughKeys       = newError(models.ErrBadRequest, "Not enough keys to start chapter")
	ErrInvalidScene        = newError(models.ErrBadRequest, "Invalid scene or scene has no choices")
	ErrInvalidChoice       = newError(models.ErrBadRequest, "Invalid choice")
	ErrSceneNotAdvanceable = newError(models.ErrBadRequest, "Scene cannot be auto-advanced")
	ErrSceneMismatch       = newError(models.ErrBadRequest, "Scene is not the player's current scene")
	ErrInvalidProduct      = newError(models.ErrBadRequest, "Invalid product")
	ErrInvalidReceipt      = newError(models.ErrBadRequest, "Receipt data is required")
	ErrInvalidQuantity     = newError(models.ErrBadRequest, "Quantity must be between 1 and 100")
	ErrInvalidPlatform     = newError(models.ErrBadRequest, "Invalid platform")
	ErrInvalidCurrency     = newError(models.ErrBadRequest, "Invalid currency")
	ErrInvalidAmount       = newError(models.ErrBadRequest, "Amount must not be negative")
)

// notEnough - ошибка нехватки валюты. Оборачивает models.ErrInsufficientFunds.
func notEnough(currency models.Currency) error {
	return newError(models.ErrInsufficientFunds, fmt.Sprintf("Not enough %s", currency))
}

// mapNotFound подменяет models.ErrNotFound из репозитория на сервисную ошибку.
func mapNotFound(err error, notFound *Error) error {
	if errors.Is(err, models.ErrNotFound) {
		return notFound
	}
	return err
}
