package auth

import (
	"bufio"
	_ "embed"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password accepted.
const MinPasswordLength = 8

// Validation messages shown next to password fields.
const (
	MsgPasswordTooShort  = "This password is too short. It must contain at least 8 characters."
	MsgPasswordTooLong   = "This password is too long. It must contain at most 72 bytes."
	MsgPasswordNumeric   = "This password is entirely numeric."
	MsgPasswordCommon    = "This password is too common."
	MsgPasswordMismatch  = "The two password fields didn't match."
	MsgSimilarToUsername = "The password is too similar to the username."
	MsgSimilarToEmail    = "The password is too similar to the email address."
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

const maxSimilarityRatio = 0.7

//go:embed common_passwords.txt
var commonPasswordList string

var commonPasswords = func() map[string]struct{} {
	set := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(commonPasswordList))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			set[strings.ToLower(line)] = struct{}{}
		}
	}
	return set
}()

var nonWord = regexp.MustCompile(`\W+`)

// ValidatePassword runs the password rules against password and returns
// every failing message. username and email feed the similarity rule; either
// may be empty.
func ValidatePassword(password, username, email string) []string {
	var msgs []string

	if msg := similarity(password, username, MsgSimilarToUsername); msg != "" {
		msgs = append(msgs, msg)
	} else if msg := similarity(password, email, MsgSimilarToEmail); msg != "" {
		msgs = append(msgs, msg)
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		msgs = append(msgs, MsgPasswordTooShort)
	}
	if len(password) > maxPasswordBytes {
		msgs = append(msgs, MsgPasswordTooLong)
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		msgs = append(msgs, MsgPasswordCommon)
	}
	if isNumeric(password) {
		msgs = append(msgs, MsgPasswordNumeric)
	}
	return msgs
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarity compares the password with the attribute and each of its
// word-separated parts.
func similarity(password, attribute, msg string) string {
	if attribute == "" || password == "" {
		return ""
	}
	pw := strings.ToLower(password)
	value := strings.ToLower(attribute)

	parts := append([]string{value}, nonWord.Split(value, -1)...)
	for _, part := range parts {
		if part == "" {
			continue
		}
		if ratio(pw, part) >= maxSimilarityRatio {
			return msg
		}
	}
	return ""
}

// ratio returns 2*M/T where M is the length of the longest common
// subsequence and T the combined length, in [0,1].
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return 2 * float64(prev[len(rb)]) / float64(total)
}
