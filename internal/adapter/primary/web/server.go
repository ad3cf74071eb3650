package web

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"exposure-debugpanel/internal/debugmenu"
	"exposure-debugpanel/internal/domain"
	"exposure-debugpanel/internal/logging"
)

// Server is a primary adapter that exposes the debug menu over HTTP.
type Server struct {
	panel *debugmenu.Panel
	feed  *Feed
	addr  string
	app   *fiber.App
}

type itemView struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// NewServer creates the HTTP server bound to addr.
func NewServer(panel *debugmenu.Panel, feed *Feed, addr string) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	srv := &Server{panel: panel, feed: feed, addr: addr, app: app}

	app.Use(loggingMiddleware)
	app.Get("/", srv.handleRoot)

	api := app.Group("/api")
	api.Get("/menu", srv.handleMenu)
	api.Post("/menu/:index", srv.handleSelect)
	api.Get("/state", srv.handleState)
	api.Get("/alerts", srv.handleAlerts)
	api.Get("/screens", srv.handleScreens)
	api.Delete("/screens/:id", srv.handleDismissScreen)
	return srv
}

// App exposes the fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleRoot(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(indexHTML)
}

func (s *Server) handleMenu(c *fiber.Ctx) error {
	labels := s.panel.Labels()
	out := make([]itemView, len(labels))
	for i, l := range labels {
		out[i] = itemView{Index: i + 1, Label: l}
	}
	return c.JSON(fiber.Map{"items": out})
}

func (s *Server) handleSelect(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "index must be a number")
	}
	item, err := s.panel.Select(index - 1)
	if err != nil {
		if errors.Is(err, debugmenu.ErrNoSuchItem) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if errors.Is(err, domain.ErrStoreStopped) || errors.Is(err, domain.ErrStoreNotStarted) {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"dispatched": item.Action.ActionName(),
		"label":      item.Label,
	})
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.panel.State())
}

func (s *Server) handleAlerts(c *fiber.Ctx) error {
	after := c.QueryInt("after", 0)
	return c.JSON(fiber.Map{"alerts": s.feed.Alerts(after)})
}

func (s *Server) handleScreens(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"screens": s.feed.Screens()})
}

func (s *Server) handleDismissScreen(c *fiber.Ctx) error {
	if !s.feed.DismissScreen(domain.ScreenID(c.Params("id"))) {
		return fiber.NewError(fiber.StatusNotFound, "screen is not visible")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logging.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func loggingMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logging.Infof("%s %s %s", c.Method(), c.Path(), time.Since(start))
	return err
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Debug Menu</title>
    <style>
        body { font-family: sans-serif; max-width: 720px; margin: 40px auto; padding: 20px; }
        li { margin: 6px 0; }
        button { background: #007bff; color: white; border: none; padding: 6px 12px; border-radius: 5px; cursor: pointer; }
        pre { background: #f0f0f0; padding: 12px; border-radius: 5px; white-space: pre-wrap; }
    </style>
</head>
<body>
    <h1>Debug Menu</h1>
    <ol id="menu"></ol>
    <h2>Alerts</h2>
    <div id="alerts"></div>
    <script>
        let last = 0;
        async function loadMenu() {
            const res = await fetch('/api/menu');
            const data = await res.json();
            const menu = document.getElementById('menu');
            menu.innerHTML = '';
            for (const item of data.items) {
                const li = document.createElement('li');
                const btn = document.createElement('button');
                btn.textContent = item.label;
                btn.onclick = async () => { await fetch('/api/menu/' + item.index, {method: 'POST'}); await loadMenu(); };
                li.appendChild(btn);
                menu.appendChild(li);
            }
        }
        async function loadAlerts() {
            const res = await fetch('/api/alerts?after=' + last);
            const data = await res.json();
            for (const a of data.alerts) {
                last = a.seq;
                const pre = document.createElement('pre');
                pre.textContent = a.title + '\n\n' + a.message;
                document.getElementById('alerts').prepend(pre);
            }
        }
        loadMenu();
        setInterval(loadAlerts, 1000);
    </script>
</body>
</html>`
