package ai

import "fmt"

// Fallback copy returned when generation cannot run. Callers always get
// usable text; AI failures never surface as errors to the donor or admin.
const (
	fallbackNotConfigured = "AI services are not configured."
	fallbackGeneration    = "Error generating content. Please try manual entry."
	fallbackThankYou      = "Thank you so much for your generous support!"
)

func buildDescriptionPrompt(topic string) string {
	return fmt.Sprintf(
		"Generate a compelling and emotional charity project description for: %s. "+
			"Keep it professional, empathetic, and under 150 words. "+
			"Focus on the impact donations will have.",
		topic,
	)
}

func buildThankYouPrompt(donorName string, amount float64, projectTitle string) string {
	return fmt.Sprintf(
		"Write a short, heartwarming thank you note to %s for donating $%.2f to the project %q. "+
			"Keep it under 50 words and sign it from the team.",
		donorName, amount, projectTitle,
	)
}
