package handlers

import (
	"strconv"

	"dcpstore/internal/catalog"
	applog "dcpstore/internal/log"
	"dcpstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PageHandler renders the store pages. Pure view glue: the catalog is a
// read-only injected value and the cart page only shows the durable mirror
// of an authenticated user.
type PageHandler struct {
	Catalog *catalog.Catalog
	Cart    *services.CartService
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	category := c.Query("category", "all")
	order := c.Query("sort", catalog.SortDefault)
	ps := h.Catalog.Search("", category, order)
	return render(c, "index", fiber.Map{
		"Products":   ps,
		"Categories": h.Catalog.Categories(),
		"Category":   category,
		"Sort":       order,
	})
}

func (h *PageHandler) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	category := c.Query("category", "all")
	order := c.Query("sort", catalog.SortDefault)
	ps := h.Catalog.Search(q, category, order)
	return render(c, "index", fiber.Map{
		"Products":   ps,
		"Categories": h.Catalog.Categories(),
		"Category":   category,
		"Sort":       order,
		"Query":      q,
	})
}

func (h *PageHandler) Product(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, ok := h.Catalog.Lookup(id)
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return render(c, "product", fiber.Map{"Product": p})
}

func (h *PageHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{})
}

func (h *PageHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{})
}

// CartPage shows the durable cart for a logged-in user. Guest carts live in
// the client's local storage; the server has nothing to render for them.
func (h *PageHandler) CartPage(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return render(c, "cart", fiber.Map{"Items": nil, "Total": 0.0})
	}
	lines, err := h.Cart.Lines(u.ID)
	if err != nil {
		applog.Error(c, "cart.page.fail", err, nil)
		return render(c, "cart", fiber.Map{"Items": nil, "Total": 0.0})
	}

	type row struct {
		Name     string
		Image    string
		Quantity int
		Price    float64
		Subtotal float64
	}
	var rows []row
	total := 0.0
	for _, ln := range lines {
		p, ok := h.Catalog.Lookup(ln.ProductID)
		if !ok {
			continue
		}
		sub := p.Price * float64(ln.Quantity)
		total += sub
		rows = append(rows, row{Name: p.Name, Image: p.Image, Quantity: ln.Quantity, Price: p.Price, Subtotal: sub})
	}
	return render(c, "cart", fiber.Map{"Items": rows, "Total": total})
}
