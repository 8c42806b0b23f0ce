package orchestrator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/agentflow-ai/agentflow/pkg/workflows"
)

// MaxMessageLength bounds user input size
const MaxMessageLength = 5000

// Validation failures returned by Submit before any graph runs
var (
	ErrEmptyMessage     = errors.New("message cannot be empty")
	ErrMessageTooLong   = fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	ErrPromptInjection  = errors.New("potential prompt injection detected")
	ErrInvalidFrequency = errors.New("invalid digest frequency")
)

// injectionPatterns flag input that tries to override the system prompt or
// smuggle in markup
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(ignore|forget|disregard|override)\s+(previous|above|prior|all)\s+(instructions|prompts|rules|commands)`),
	regexp.MustCompile(`(?i)system\s*:\s*you\s+are`),
	regexp.MustCompile(`(?i)<\s*script\s*>`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)on(load|error|click)\s*=`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// validateMessage checks user input against length and injection rules and
// returns it with whitespace runs collapsed
func validateMessage(message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	if len(message) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(message) {
			return "", ErrPromptInjection
		}
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(message, " ")), nil
}

// validateFrequency normalizes and checks a digest frequency
func validateFrequency(frequency string) (workflows.Frequency, error) {
	normalized := workflows.Frequency(strings.ToLower(strings.TrimSpace(frequency)))
	if !normalized.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, frequency)
	}
	return normalized, nil
}
