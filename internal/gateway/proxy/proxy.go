package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"wayfinding/internal/common/middleware"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Upstream
// ============================================================

const defaultTimeout = 60 * time.Second

// Заголовки, которые не пересылаются между соединениями.
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
	"Upgrade":           true,
}

// Upstream - сервис за шлюзом. Путь запроса переписывается:
// strip снимается с начала, prefix добавляется.
type Upstream struct {
	Name   string
	URL    string
	strip  string
	prefix string
	client *http.Client
}

func New(name, url string) *Upstream {
	return &Upstream{
		Name:   name,
		URL:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Rewrite задаёт переписывание пути: /api/v1/x → prefix + /x при strip=/api/v1.
func (u *Upstream) Rewrite(strip, prefix string) *Upstream {
	u.strip = strip
	u.prefix = prefix
	return u
}

func (u *Upstream) target(path, query string) string {
	path = u.prefix + strings.TrimPrefix(path, u.strip)
	if query != "" {
		return u.URL + path + "?" + query
	}
	return u.URL + path
}

// Handler проксирует запрос как есть: метод, тело (включая multipart) и query.
func (u *Upstream) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		target := u.target(c.Path(), string(c.Request().URI().QueryString()))
		log.Printf("[PROXY] %s %s -> %s (%s, %d bytes)", c.Method(), c.Path(), target, u.Name, len(c.Body()))

		req, err := http.NewRequestWithContext(c.Context(), c.Method(), target, bytes.NewReader(c.Body()))
		if err != nil {
			log.Printf("[PROXY] build request error: %v", err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
		}

		for _, h := range []string{"Content-Type", "Accept", "Accept-Language"} {
			if v := c.Get(h); v != "" {
				req.Header.Set(h, v)
			}
		}
		if id := middleware.GetRequestID(c); id != "" {
			req.Header.Set(middleware.RequestIDHeader, id)
		}

		resp, err := u.client.Do(req)
		if err != nil {
			log.Printf("[PROXY] %s unreachable: %v", u.Name, err)
			return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": fmt.Sprintf("failed to reach %s service", u.Name)})
		}
		defer resp.Body.Close()

		return copyResponse(c, resp)
	}
}

// Ping проверяет liveness сервиса.
func (u *Upstream) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL+"/health/live", nil)
	if err != nil {
		return err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", u.Name, resp.StatusCode)
	}
	return nil
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if hopHeaders[key] || len(values) == 0 {
			continue
		}
		c.Set(key, values[0])
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
