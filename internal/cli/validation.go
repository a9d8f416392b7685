package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// validateLanguageCode validates language code input
func validateLanguageCode(input string) (string, error) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" {
		return "", fmt.Errorf("language code is required")
	}
	if len(input) < 2 || len(input) > 3 {
		return "", fmt.Errorf("language code should be 2-3 characters (e.g., FR, EN, IT)")
	}
	return input, nil
}

// validateCronExpression validates cron expression input
func validateCronExpression(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("cron expression is required")
	}

	// Basic validation - check if it has 5 parts
	parts := strings.Fields(input)
	if len(parts) != 5 {
		return "", fmt.Errorf("invalid cron expression: %s (must have 5 parts)", input)
	}

	return input, nil
}

// validateNumber validates numeric input within a range
func validateNumber(input string, min, max int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return min, nil
	}

	num, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s (enter a positive integer)", input)
	}

	if num < min || num > max {
		return 0, fmt.Errorf("number must be between %d and %d, got: %d", min, max, num)
	}

	return num, nil
}

// maskSensitiveData masks sensitive data for display
func maskSensitiveData(data string, maskChar string) string {
	if data == "" {
		return "(not set)"
	}
	if len(data) <= 8 {
		return strings.Repeat(maskChar, 3)
	}
	return data[:4] + "..." + data[len(data)-4:]
}
