package invites

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^PLAY-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// CodeGenerator returns a candidate invite code. Candidates may collide with
// existing codes; the registry retries.
type CodeGenerator func() (string, error)

// RandomCode draws a PLAY-XXXX-XXXX code from crypto/rand
func RandomCode() (string, error) {
	var b strings.Builder
	b.Grow(14)
	b.WriteString("PLAY-")
	for i := 0; i < 8; i++ {
		if i == 4 {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generating invite code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeCode upper-cases and trims user input. ok is false when the result
// does not have the invite code format.
func NormalizeCode(input string) (code string, ok bool) {
	code = strings.ToUpper(strings.TrimSpace(input))
	return code, codePattern.MatchString(code)
}
