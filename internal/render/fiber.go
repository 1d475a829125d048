package render

import "github.com/gofiber/fiber/v2"

// Send renders p in the format the request accepts and writes it with status.
func Send(c *fiber.Ctx, status int, p Payload) error {
	body, contentType, err := Render(p, c.Get(fiber.HeaderAccept))
	if err != nil {
		return err
	}
	c.Vary(fiber.HeaderAccept)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(status).Send(body)
}
