package handlers

import (
	"fmt"
	"log"
	"strconv"

	"lolitems/internal/apperror"
	"lolitems/internal/middleware"
	"lolitems/internal/models"
	"lolitems/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles HTTP requests for items.
type ItemHandler struct {
	itemService *services.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// RegisterRoutes registers the item routes. Reads are public, writes pass
// through guard.
func (h *ItemHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	items := router.Group("/items")
	items.Get("/", h.ListItems)
	items.Get("/:name", h.GetItem)
	items.Post("/", guard, h.CreateItem)
	items.Put("/:name", guard, h.UpdateItem)
	items.Delete("/:name", guard, h.DeleteItem)
}

// ListItems returns the names of the items matching the query filters:
// repeated stats parameters, price and price_ge (default true).
func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	filter, err := parseItemFilter(c)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	names, err := h.itemService.ListItems(c.UserContext(), filter)
	if err != nil {
		log.Printf("Error listing items: %v", err)
		return middleware.RespondError(c, err)
	}
	return c.JSON(names)
}

func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	name := pathName(c, "name")
	item, err := h.itemService.GetItem(c.UserContext(), name)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	return c.JSON(item)
}

func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var item models.Item
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing item request body: %v", err)
		return badBody(c, err)
	}

	name, err := h.itemService.CreateItem(c.UserContext(), &item)
	if err != nil {
		log.Printf("Error creating item %s: %v", item.Name, err)
		return middleware.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item created successfully",
		"name":    name,
	})
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	name := pathName(c, "name")
	var item models.Item
	if err := c.BodyParser(&item); err != nil {
		log.Printf("Error parsing item request body: %v", err)
		return badBody(c, err)
	}

	updated, err := h.itemService.UpdateItem(c.UserContext(), name, &item)
	if err != nil {
		log.Printf("Error updating item %s: %v", name, err)
		return middleware.RespondError(c, err)
	}
	return c.JSON(updated)
}

func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	name := pathName(c, "name")
	if err := h.itemService.DeleteItem(c.UserContext(), name); err != nil {
		log.Printf("Error deleting item %s: %v", name, err)
		return middleware.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Item %s deleted successfully", name),
	})
}

func parseItemFilter(c *fiber.Ctx) (models.ItemFilter, error) {
	var filter models.ItemFilter
	fields := map[string]string{}

	for _, raw := range c.Context().QueryArgs().PeekMulti("stats") {
		stat, err := models.ParseStat(string(raw))
		if err != nil {
			fields["stats"] = err.Error()
			continue
		}
		filter.Stats = append(filter.Stats, stat)
	}

	if raw := c.Query("price"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields["price"] = "must be a number"
		}
		ge := true
		if rawGE := c.Query("price_ge"); rawGE != "" {
			if ge, err = strconv.ParseBool(rawGE); err != nil {
				fields["price_ge"] = "must be a boolean"
			}
		}
		filter.Price = &models.PriceFilter{Threshold: threshold, GreaterOrEqual: ge}
	} else if c.Query("price_ge") != "" {
		fields["price_ge"] = "requires price"
	}

	if len(fields) > 0 {
		return models.ItemFilter{}, apperror.NewValidationError(fields)
	}
	return filter, nil
}
