// Package response renders the JSON envelope shared by every HTTP endpoint.
package response

import "github.com/gofiber/fiber/v2"

// Message is a user-facing message in English and in the local language.
type Message struct {
	EN    string `json:"en"`
	Local string `json:"local"`
}

// Envelope wraps the payload of every response. Data is null on failure.
type Envelope[T any] struct {
	Success bool    `json:"success"`
	Code    int     `json:"code"`
	Message Message `json:"message"`
	Data    *T      `json:"data"`
}

// OK writes a 200 envelope carrying data.
func OK[T any](c *fiber.Ctx, msg Message, data T) error {
	return c.Status(fiber.StatusOK).JSON(Envelope[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: msg,
		Data:    &data,
	})
}

// Empty writes a 200 envelope with null data.
func Empty(c *fiber.Ctx, msg Message) error {
	return c.Status(fiber.StatusOK).JSON(Envelope[struct{}]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: msg,
	})
}

// Fail writes a failure envelope with the given status.
func Fail(c *fiber.Ctx, status int, msg Message) error {
	return c.Status(status).JSON(Envelope[struct{}]{
		Success: false,
		Code:    status,
		Message: msg,
	})
}
