// Package payment симулирует списание с карты по тестовым номерам Stripe.
// Результат носит информационный характер: заказ всегда оформляется с оплатой
// при получении.
package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Card данные карты в том виде, в каком их ввёл пользователь
type Card struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Expiry string `json:"expiry"` // MM/YY
	CVC    string `json:"cvc"`
}

// Masked номер с последними четырьмя цифрами
func (c Card) Masked() string {
	num := normalize(c.Number)
	if len(num) <= 4 {
		return num
	}
	return strings.Repeat("*", len(num)-4) + num[len(num)-4:]
}

type Result struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message,omitempty"`
}

// test numbers with a fixed outcome
var testCards = map[string]Result{
	"4242424242424242": {Approved: true},
	"5555555555554444": {Approved: true},
	"4000000000000002": {Approved: false, Message: "Your card was declined."},
	"4000000000009995": {Approved: false, Message: "Insufficient funds."},
	"4000000000000069": {Approved: false, Message: "Expired card."},
	"4000002500003155": {Approved: true, Message: "3D Secure challenge simulated and approved."},
}

var (
	expiryRe = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	cvcRe    = regexp.MustCompile(`^\d{3,4}$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
)

// Simulate проверяет карту и возвращает исход по таблице тестовых карт.
// Любая другая корректная карта одобряется.
func Simulate(c Card, now time.Time) Result {
	num := normalize(c.Number)
	if strings.TrimSpace(c.Name) == "" {
		return Result{Message: "Name on card required"}
	}
	if len(num) < 13 || !digitsRe.MatchString(num) {
		return Result{Message: "Enter a valid card number"}
	}
	if !Luhn(num) {
		return Result{Message: "Invalid card number"}
	}
	valid, expired := ParseExpiry(strings.TrimSpace(c.Expiry), now)
	if !valid {
		return Result{Message: "Use MM/YY format for expiry"}
	}
	if expired {
		return Result{Message: "Card is expired"}
	}
	if !cvcRe.MatchString(c.CVC) {
		return Result{Message: "Invalid CVC"}
	}
	if r, ok := testCards[num]; ok {
		return r
	}
	return Result{Approved: true}
}

// Luhn контрольная сумма номера карты; нецифровые символы игнорируются
func Luhn(number string) bool {
	sum, n := 0, 0
	for i := len(number) - 1; i >= 0; i-- {
		ch := number[i]
		if ch < '0' || ch > '9' {
			continue
		}
		d := int(ch - '0')
		if n%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		n++
	}
	return n > 0 && sum%10 == 0
}

// ParseExpiry разбирает MM/YY. Карта действует до конца указанного месяца.
func ParseExpiry(mmYY string, now time.Time) (valid, expired bool) {
	m := expiryRe.FindStringSubmatch(mmYY)
	if m == nil {
		return false, false
	}
	mm, _ := strconv.Atoi(m[1])
	yy, _ := strconv.Atoi(m[2])
	if mm < 1 || mm > 12 {
		return false, false
	}
	cardMonth := (2000+yy)*12 + mm
	currentMonth := now.Year()*12 + int(now.Month())
	return true, cardMonth < currentMonth
}

func normalize(number string) string {
	return strings.Join(strings.Fields(number), "")
}
