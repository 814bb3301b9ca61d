package usecase

import (
	"fmt"
	"strings"
)

// EmptyRoomPrompt — промпт полной очистки комнаты от мебели и людей.
func EmptyRoomPrompt() string {
	return "Remove all furniture, people, and objects from this room. " +
		"Show the room completely empty with bare walls and flooring. " +
		"Keep the exact architecture, size, window positions, lighting, and perspective unchanged. " +
		"Photorealistic."
}

// DesignPrompt — промпт обстановки комнаты в заданном стиле.
// additional — свободные пожелания пользователя, могут быть пустыми.
func DesignPrompt(style, roomType, additional string) string {
	prompt := fmt.Sprintf(
		"Furnish this empty room as a %s %s. "+
			"Keep the exact architecture, size, window positions, lighting, and perspective unchanged. "+
			"Add furniture, rugs, and decor matching the style.",
		style, roomType,
	)

	if additional = strings.TrimSpace(additional); additional != "" {
		prompt += " " + additional + "."
	}

	return prompt + " Photorealistic."
}

// RefinePrompt — промпт точечного изменения с сохранением всего остального.
func RefinePrompt(instruction string) string {
	return fmt.Sprintf(
		"Based on this image, apply the following change: %s. "+
			"Maintain the exact perspective, lighting, architecture, and all other furniture/decor that is not being changed. "+
			"Photorealistic.",
		instruction,
	)
}
