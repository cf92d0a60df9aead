package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxKeys - верхняя граница баланса ключей (и для пополнения, и для зачисления).
	MaxKeys = 5
	// KeyRefillInterval - за каждый полный интервал восстанавливается один ключ.
	KeyRefillInterval = 30 * time.Minute
	// DefaultKeysBalance - стартовый баланс ключей нового пользователя.
	DefaultKeysBalance = MaxKeys
)

// UserInventory - запись леджера валют пользователя.
type UserInventory struct {
	UserID          uuid.UUID `db:"user_id" json:"userId"`
	DiamondsBalance int       `db:"diamonds_balance" json:"diamondsBalance"`
	KeysBalance     int       `db:"keys_balance" json:"keysBalance"`
	LastKeyRefillAt time.Time `db:"last_key_refill_at" json:"lastKeyRefillAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// NewUserInventory создает запись со значениями по умолчанию: 0 алмазов, 5 ключей.
func NewUserInventory(userID uuid.UUID, now time.Time) *UserInventory {
	return &UserInventory{
		UserID:          userID,
		DiamondsBalance: 0,
		KeysBalance:     DefaultKeysBalance,
		LastKeyRefillAt: now,
		UpdatedAt:       now,
	}
}

// ApplyRefill лениво восстанавливает ключи на момент now.
// lastKeyRefillAt сдвигается на целое число интервалов, остаток времени не теряется.
// Возвращает true, если баланс изменился и запись нужно сохранить.
func (inv *UserInventory) ApplyRefill(now time.Time) bool {
	if inv.KeysBalance >= MaxKeys {
		return false
	}
	elapsed := now.Sub(inv.LastKeyRefillAt)
	if elapsed < KeyRefillInterval {
		return false
	}
	whole := int(elapsed / KeyRefillInterval)
	newBalance := min(inv.KeysBalance+whole, MaxKeys)
	if newBalance <= inv.KeysBalance {
		return false
	}
	inv.KeysBalance = newBalance
	inv.LastKeyRefillAt = inv.LastKeyRefillAt.Add(time.Duration(whole) * KeyRefillInterval)
	inv.UpdatedAt = now
	return true
}

// TimeUntilNextKey - время до следующего ключа. 0, если баланс полный.
func (inv *UserInventory) TimeUntilNextKey(now time.Time) time.Duration {
	if inv.KeysBalance >= MaxKeys {
		return 0
	}
	elapsed := now.Sub(inv.LastKeyRefillAt)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := KeyRefillInterval - elapsed%KeyRefillInterval
	return max(remaining, 0)
}

// Balance возвращает баланс указанной валюты.
func (inv *UserInventory) Balance(currency Currency) (int, error) {
	switch currency {
	case CurrencyDiamonds:
		return inv.DiamondsBalance, nil
	case CurrencyKeys:
		return inv.KeysBalance, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
}

// CanAfford - хватает ли баланса на amount.
func (inv *UserInventory) CanAfford(amount int, currency Currency) (bool, error) {
	if amount < 0 {
		return false, fmt.Errorf("%w: negative amount %d", ErrInvalidInput, amount)
	}
	balance, err := inv.Balance(currency)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

// Deduct списывает amount. При нехватке возвращает ошибку, оборачивающую ErrInsufficientFunds,
// и не меняет запись.
func (inv *UserInventory) Deduct(amount int, currency Currency, now time.Time) error {
	ok, err := inv.CanAfford(amount, currency)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: Not enough %s", ErrInsufficientFunds, currency)
	}
	switch currency {
	case CurrencyDiamonds:
		inv.DiamondsBalance -= amount
	case CurrencyKeys:
		inv.KeysBalance -= amount
	}
	inv.UpdatedAt = now
	return nil
}

// Credit зачисляет amount. Ключи ограничены MaxKeys, алмазы - нет.
func (inv *UserInventory) Credit(amount int, currency Currency, now time.Time) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidInput, amount)
	}
	switch currency {
	case CurrencyDiamonds:
		inv.DiamondsBalance += amount
	case CurrencyKeys:
		inv.KeysBalance = min(inv.KeysBalance+amount, MaxKeys)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	inv.UpdatedAt = now
	return nil
}

// InventoryBalance - ответ GET /inventory.
type InventoryBalance struct {
	UserID           uuid.UUID `json:"userId"`
	DiamondsBalance  int       `json:"diamondsBalance"`
	KeysBalance      int       `json:"keysBalance"`
	LastKeyRefillAt  time.Time `json:"lastKeyRefillAt"`
	TimeUntilNextKey int64     `json:"timeUntilNextKey"` // миллисекунды
}

// NewInventoryBalance собирает ответ по записи леджера на момент now.
func NewInventoryBalance(inv *UserInventory, now time.Time) *InventoryBalance {
	return &InventoryBalance{
		UserID:           inv.UserID,
		DiamondsBalance:  inv.DiamondsBalance,
		KeysBalance:      inv.KeysBalance,
		LastKeyRefillAt:  inv.LastKeyRefillAt,
		TimeUntilNextKey: inv.TimeUntilNextKey(now).Milliseconds(),
	}
}
