package usecase

import (
	"fmt"
	"unicode/utf8"
)

// minPasswordLength はパスワードの最低文字数を定義します。
const minPasswordLength = 8

// validatePassword はパスワードが全てのルールを満たしているかチェックします。
// 違反したルールをすべて列挙した *PasswordPolicyError を返します。
// 英大文字・英小文字・数字はASCIIの範囲のみを数え、それ以外の文字はすべて記号として扱います。
func validatePassword(password string) error {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case 'a' <= r && r <= 'z':
			hasLower = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	var problems []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("Passwords must be at least %d characters.", minPasswordLength))
	}
	if !hasSymbol {
		problems = append(problems, "Passwords must have at least one non alphanumeric character.")
	}
	if !hasDigit {
		problems = append(problems, "Passwords must have at least one digit ('0'-'9').")
	}
	if !hasLower {
		problems = append(problems, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !hasUpper {
		problems = append(problems, "Passwords must have at least one uppercase ('A'-'Z').")
	}

	if len(problems) > 0 {
		return &PasswordPolicyError{Problems: problems}
	}
	return nil
}
