package main

import (
	"context"
	"fmt"

	"urban-bites/restaurant-svc/internal/domain"
	"urban-bites/restaurant-svc/internal/service"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func defaultMenu() []domain.MenuItem {
	item := func(name, description string, price int64, category domain.Category, image string) domain.MenuItem {
		return domain.MenuItem{
			Name:        name,
			Description: description,
			Price:       decimal.NewFromInt(price),
			Category:    category,
			Image:       "https://images.unsplash.com/" + image + "?auto=format&fit=crop&w=800&q=80",
			IsAvailable: true,
		}
	}
	return []domain.MenuItem{
		item("Bruschetta al Pomodoro", "Toasted sourdough topped with fresh tomatoes, garlic, basil, and extra virgin olive oil.", 12, domain.CategoryStarters, "photo-1506280754576-f6fa8a873550"),
		item("Crispy Calamari", "Golden fried squid rings served with lemon wedges and homemade tartare sauce.", 16, domain.CategoryStarters, "photo-1626645738196-c2a7c87a8f58"),
		item("Truffle Arancini", "Crispy risotto balls infused with black truffle and mozzarella, served with marinara.", 14, domain.CategoryStarters, "photo-1595295333158-4742f28fbd85"),
		item("Caprese Salad", "Fresh mozzarella, vine-ripened tomatoes, and basil, drizzled with balsamic glaze.", 15, domain.CategoryStarters, "photo-1592417817098-8fd3d9eb14a5"),
		item("Wagyu Beef Burger", "Premium Wagyu patty, brioche bun, aged cheddar, caramelized onions, and truffle mayo.", 28, domain.CategoryMains, "photo-1550547660-d9450f859349"),
		item("Pan-Seared Salmon", "Fresh Atlantic salmon fillet served with asparagus, roasted potatoes, and lemon butter sauce.", 32, domain.CategoryMains, "photo-1485921325833-c519f76c4927"),
		item("Truffle Mushroom Risotto", "Creamy arborio rice cooked with wild mushrooms, parmesan, and a drizzle of truffle oil.", 26, domain.CategoryMains, "photo-1476124369491-e7addf5db371"),
		item("Ribeye Steak", "300g grass-fed Ribeye steak, grilled to perfection, served with peppercorn sauce and fries.", 45, domain.CategoryMains, "photo-1600891964092-4316c288032e"),
		item("Classic Tiramisu", "Layers of coffee-soaked ladyfingers and mascarpone cream, dusted with cocoa powder.", 12, domain.CategoryDesserts, "photo-1571877227200-a0d98ea607e9"),
		item("Molten Chocolate Lava Cake", "Warm chocolate cake with a gooey center, served with vanilla bean ice cream.", 14, domain.CategoryDesserts, "photo-1624353365286-3f8d62daad51"),
		item("New York Cheesecake", "Rich and creamy cheesecake with a graham cracker crust, topped with fresh berry compote.", 13, domain.CategoryDesserts, "photo-1533134242443-d4fd215305ad"),
		item("Panna Cotta", "Silky vanilla bean panna cotta served with a tart raspberry coulis.", 11, domain.CategoryDesserts, "photo-1488477181946-6428a0291777"),
	}
}

// seedMenu fills an empty menu with the house defaults. A menu that already has items is left alone.
func seedMenu(ctx context.Context, menu service.MenuServiceInterface) (int, error) {
	existing, err := menu.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list menu: %w", err)
	}
	if len(existing) > 0 {
		log.WithField("items", len(existing)).Info("Menu already populated, skipping seed")
		return 0, nil
	}

	items := defaultMenu()
	for i := range items {
		if err := menu.Create(ctx, &items[i]); err != nil {
			return i, fmt.Errorf("seed %q: %w", items[i].Name, err)
		}
		log.WithField("name", items[i].Name).Debug("Seeded menu item")
	}
	return len(items), nil
}
