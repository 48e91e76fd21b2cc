package guest

import (
	"embed"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))

// Sessions resolves the session a guest list belongs to.
type Sessions interface {
	// ID returns the caller's session id, starting a session when needed.
	ID(c *fiber.Ctx) (string, error)
	// CurrentID returns the id of the caller's existing session without starting one.
	CurrentID(c *fiber.Ctx) (string, bool, error)
}

// AddTaskRequest is the body of a guest task creation.
type AddTaskRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// ListResponse is the JSON form of a guest list.
type ListResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
}

type pageData struct {
	Tasks   []Task
	Total   int
	Pending int
}

// Handler serves the guest list as an HTML page and as JSON.
// Reads never start a session or a store; only adding a task does.
type Handler struct {
	registry *Registry
	sessions Sessions
}

func NewHandler(registry *Registry, sessions Sessions) *Handler {
	return &Handler{registry: registry, sessions: sessions}
}

// MountPage registers the HTML view and its form posts.
func (h *Handler) MountPage(router fiber.Router) {
	router.Get("/", h.page)
	form := router.Group("/guest/form")
	form.Post("/add", h.formAdd)
	form.Post("/:id/toggle", h.formToggle)
	form.Post("/:id/delete", h.formDelete)
}

// MountAPI registers the JSON endpoints.
func (h *Handler) MountAPI(router fiber.Router) {
	tasks := router.Group("/guest/tasks")
	tasks.Get("/", h.list)
	tasks.Post("/", h.add)
	tasks.Post("/:id/toggle", h.toggle)
	tasks.Delete("/:id", h.remove)
}

// store returns the caller's store, creating the session and store when needed.
func (h *Handler) store(c *fiber.Ctx) (TaskStore, error) {
	id, err := h.sessions.ID(c)
	if err != nil {
		return nil, err
	}
	return h.registry.For(id), nil
}

// existing returns the caller's store if both the session and the store exist.
func (h *Handler) existing(c *fiber.Ctx) (TaskStore, bool, error) {
	id, ok, err := h.sessions.CurrentID(c)
	if err != nil || !ok {
		return nil, false, err
	}
	s, ok := h.registry.Lookup(id)
	return s, ok, nil
}

// tasks lists the caller's tasks; callers without a store have none.
func (h *Handler) tasks(c *fiber.Ctx) ([]Task, error) {
	s, ok, err := h.existing(c)
	if err != nil || !ok {
		return []Task{}, err
	}
	return s.List(), nil
}

func (h *Handler) page(c *fiber.Ctx) error {
	tasks, err := h.tasks(c)
	if err != nil {
		return err
	}
	data := pageData{Tasks: tasks, Total: len(tasks)}
	for _, t := range tasks {
		if !t.Completed {
			data.Pending++
		}
	}

	c.Type("html", "utf-8")
	return indexTemplate.Execute(c.Response().BodyWriter(), data)
}

func (h *Handler) formAdd(c *fiber.Ctx) error {
	if strings.TrimSpace(c.FormValue("title")) == "" {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	s, err := h.store(c)
	if err != nil {
		return err
	}
	s.Add(c.FormValue("title"), c.FormValue("description"))
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *Handler) formToggle(c *fiber.Ctx) error {
	s, ok, err := h.existing(c)
	if err != nil {
		return err
	}
	if ok {
		s.Toggle(c.Params("id"))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *Handler) formDelete(c *fiber.Ctx) error {
	s, ok, err := h.existing(c)
	if err != nil {
		return err
	}
	if ok {
		s.Delete(c.Params("id"))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *Handler) list(c *fiber.Ctx) error {
	tasks, err := h.tasks(c)
	if err != nil {
		return err
	}
	return c.JSON(ListResponse{Tasks: tasks, Total: len(tasks)})
}

func (h *Handler) add(c *fiber.Ctx) error {
	var req AddTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Title is required")
	}
	s, err := h.store(c)
	if err != nil {
		return err
	}
	t, ok := s.Add(req.Title, req.Description)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Title is required")
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) toggle(c *fiber.Ctx) error {
	s, ok, err := h.existing(c)
	if err != nil {
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Task not found")
	}
	t, ok := s.Toggle(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Task not found")
	}
	return c.JSON(t)
}

func (h *Handler) remove(c *fiber.Ctx) error {
	s, ok, err := h.existing(c)
	if err != nil {
		return err
	}
	if !ok || !s.Delete(c.Params("id")) {
		return fiber.NewError(fiber.StatusNotFound, "Task not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
