// package validate
package validate

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

// Validator is a function that validates a string and returns an error if invalid
type Validator func(value string) error

// Field creates a labeled validator with a custom name for better error messages
func Field(name string, validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				if !strings.Contains(err.Error(), name) {
					return fmt.Errorf("%s: %w", name, err)
				}
				return err
			}
		}
		return nil
	}
}

// Compose chains multiple validators, first error wins
func Compose(validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required ensures the field is not empty
func Required() Validator {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("this field is required")
		}
		return nil
	}
}

// MinLength checks minimum length
func MinLength(min int) Validator {
	return func(v string) error {
		if len(v) < min {
			return fmt.Errorf("must be at least %d characters", min)
		}
		return nil
	}
}

// MaxLength checks maximum length
func MaxLength(max int) Validator {
	return func(v string) error {
		if len(v) > max {
			return fmt.Errorf("must be no more than %d characters", max)
		}
		return nil
	}
}

// LengthBetween checks length between min and max (inclusive)
func LengthBetween(min, max int) Validator {
	return Compose(MinLength(min), MaxLength(max))
}

// Email validates email format using net/mail + common sense
func Email() Validator {
	return func(v string) error {
		if v == "" {
			return nil
		}
		if _, err := mail.ParseAddress(v); err != nil {
			return fmt.Errorf("must be a valid email address")
		}
		return nil
	}
}

// Matches checks if value matches a regex with a custom message
func Matches(pattern, message string) Validator {
	re := regexp.MustCompile(pattern)
	return func(v string) error {
		if !re.MatchString(v) {
			if message != "" {
				return fmt.Errorf("%s", message)
			}
			return fmt.Errorf("invalid format")
		}
		return nil
	}
}

// OneOf checks if value is in allowed list
func OneOf(allowed ...string) Validator {
	set := make(map[string]bool)
	for _, a := range allowed {
		set[a] = true
	}
	return func(v string) error {
		if !set[v] {
			return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

// Password requires at least one letter and one digit alongside a length floor
func Password(min int) Validator {
	return func(v string) error {
		if len(v) < min {
			return fmt.Errorf("must be at least %d characters", min)
		}
		var hasLetter, hasDigit bool
		for _, c := range v {
			switch {
			case unicode.IsLetter(c):
				hasLetter = true
			case unicode.IsDigit(c):
				hasDigit = true
			}
		}
		if !hasLetter || !hasDigit {
			return fmt.Errorf("must contain at least one letter and one digit")
		}
		return nil
	}
}

// Domain field rules shared by handlers.

func Username() Validator {
	return Compose(
		Required(),
		LengthBetween(3, 20),
		Matches(`^[a-zA-Z0-9_]+$`, "must contain only letters, numbers and underscores"),
	)
}

func RoomName() Validator {
	return Compose(Required(), MaxLength(100))
}

func RoomDescription() Validator {
	return MaxLength(500)
}

func MessageContent() Validator {
	return Compose(Required(), LengthBetween(1, 1000))
}

func MessageType() Validator {
	return OneOf("text", "image", "file")
}
