package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const passwordLength = 6

// ErrInsufficientVariety means the account fields cannot yield a password
// with at least one lowercase letter, one uppercase letter and one digit.
// There is no fallback scheme.
var ErrInsufficientVariety = errors.New("not enough character variety in input to generate a valid password")

// GeneratePassword derives the initial login password from the account
// fields. It guarantees one lowercase letter, one uppercase letter and one
// digit, fills up to six characters from the combined fields, then shuffles.
// The password is emailed to the user and only its bcrypt hash is stored.
func GeneratePassword(firstName, lastName, email, phone string) (string, error) {
	combined := []rune(firstName + lastName + email + phone)

	var lower, upper, digits []rune
	for _, ch := range combined {
		switch {
		case ch >= 'a' && ch <= 'z':
			lower = append(lower, ch)
		case ch >= 'A' && ch <= 'Z':
			upper = append(upper, ch)
		case ch >= '0' && ch <= '9':
			digits = append(digits, ch)
		}
	}

	if len(lower) == 0 || len(upper) == 0 || len(digits) == 0 {
		return "", ErrInsufficientVariety
	}

	password := make([]rune, 0, passwordLength)
	for _, pool := range [][]rune{lower, upper, digits} {
		ch, err := randomElement(pool)
		if err != nil {
			return "", err
		}
		password = append(password, ch)
	}

	// Filler characters come from the full combined input, symbols and
	// whitespace included.
	for len(password) < passwordLength {
		ch, err := randomElement(combined)
		if err != nil {
			return "", err
		}
		password = append(password, ch)
	}

	if err := shuffle(password); err != nil {
		return "", err
	}

	return string(password), nil
}

func randomElement(pool []rune) (rune, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		return 0, fmt.Errorf("failed to read random index: %w", err)
	}
	return pool[n.Int64()], nil
}

func shuffle(runes []rune) error {
	for i := len(runes) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to read random index: %w", err)
		}
		j := n.Int64()
		runes[i], runes[j] = runes[j], runes[i]
	}
	return nil
}
