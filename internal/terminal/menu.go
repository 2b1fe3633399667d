package terminal

import "github.com/shopspring/decimal"

// MenuItem is an entry on the fixed menu
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// Menu is the catalogue the cashier picks from, grouped by category
type Menu struct {
	Categories []string   `json:"categories"`
	Items      []MenuItem `json:"items"`
}

// Find returns the item with the given id
func (m Menu) Find(id string) (MenuItem, bool) {
	for _, item := range m.Items {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}

// InCategory returns the items of one category in menu order
func (m Menu) InCategory(category string) []MenuItem {
	out := make([]MenuItem, 0)
	for _, item := range m.Items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

func item(id, name string, price int64, description, category string) MenuItem {
	return MenuItem{
		ID:          id,
		Name:        name,
		Price:       decimal.NewFromInt(price),
		Description: description,
		Category:    category,
	}
}

// Menu categories
const (
	CategoryRiceToppings = "Rice Toppings"
	CategorySizzlers     = "Sizzlers"
	CategorySoupNoodles  = "Soup & Noodles"
	CategoryBeverages    = "Beverages"
	CategoryDesserts     = "Desserts"
	CategoryExtras       = "Extras"
)

// DefaultMenu is the house menu
var DefaultMenu = Menu{
	Categories: []string{
		CategoryRiceToppings,
		CategorySizzlers,
		CategorySoupNoodles,
		CategoryBeverages,
		CategoryDesserts,
		CategoryExtras,
	},
	Items: []MenuItem{
		item("1", "BagnetSilog", 170, "Crispy bagnet with rice and egg", CategoryRiceToppings),
		item("2", "Bagnet Bagoong Rice", 175, "Bagnet with bagoong rice", CategoryRiceToppings),
		item("3", "TapaLangit Nawa (Angus Beef w/ Tendon)", 250, "Premium Angus beef tapa with tendon", CategoryRiceToppings),
		item("4", "KKB (Kare-Kareng Bagnet)", 185, "Bagnet in rich kare-kare sauce", CategoryRiceToppings),
		item("5", "Triple Bypass (Bagnet, Chicken Skin, Chicharon)", 190, "Ultimate crispy combo platter", CategoryRiceToppings),
		item("6", "High Blood (Crispy Dinuguan)", 175, "Crispy version of the classic dinuguan", CategoryRiceToppings),
		item("7", "T.B. (Talong at Binagoongan)", 270, "Eggplant and binagoongan rice bowl", CategoryRiceToppings),
		item("8", "CPR (Crispy Pata Rice)", 630, "Crispy pork leg with rice", CategoryRiceToppings),
		item("9", "Code Red (Crispy Bicol Express)", 185, "Crispy take on spicy Bicol Express", CategoryRiceToppings),

		item("10", "Bagnet Sisig", 190, "Sizzling bagnet sisig on hot plate", CategorySizzlers),
		item("11", "Beef Pares", 190, "Sweet and savory braised beef", CategorySizzlers),
		item("12", "Mild Stroke (Pares w/ Bone Marrow + Unli Rice)", 290, "Beef pares with bone marrow and unlimited rice", CategorySizzlers),
		item("13", "Brain Damage (Sizzling Bulalo Steak + Unli Rice)", 300, "Sizzling bulalo steak with unlimited rice", CategorySizzlers),
		item("14", "Last Supper (Bulalo Steak w/ Tendon + Unli Rice)", 315, "Bulalo steak with tendon and unlimited rice", CategorySizzlers),
		item("15", "Sizzling Garlic Rice", 195, "Fragrant garlic rice on sizzling plate", CategorySizzlers),
		item("16", "Liemposuction (Liempo, Java Rice, and Kimchi)", 210, "Grilled liempo with java rice and kimchi", CategorySizzlers),
		item("17", "Liemphoma (Sizzling Breaded Liempo)", 210, "Crispy breaded liempo on sizzling plate", CategorySizzlers),

		item("18", "Final Destination (Bulalo)", 270, "Rich and hearty bone marrow soup", CategorySoupNoodles),
		item("19", "Asim-Tomatic (Sinigang na Baka w/ Tendon)", 280, "Sour beef soup with tender tendon", CategorySoupNoodles),
		item("20", "The Goutfather (Papaitan w/ Bone Marrow)", 200, "Traditional bitter soup with bone marrow", CategorySoupNoodles),
		item("21", "PetmaLOMI (7 Toppings)", 160, "Thick noodle soup with seven toppings", CategorySoupNoodles),
		item("22", "For Long Life (Pansit Patong)", 230, "Layered noodles for good fortune", CategorySoupNoodles),
		item("23", "Palabok Overlog (Pansit Luglog)", 200, "Rice noodles with thick shrimp sauce", CategorySoupNoodles),

		item("37", "Coke", 30, "Classic Coca-Cola", CategoryBeverages),
		item("38", "Coke Zero", 60, "Zero sugar Coca-Cola", CategoryBeverages),
		item("39", "Royal", 30, "Orange-flavored soft drink", CategoryBeverages),
		item("40", "Sprite", 30, "Lemon-lime soda", CategoryBeverages),
		item("41", "Mountain Dew", 30, "Citrus-flavored energy drink", CategoryBeverages),
		item("42", "Pineapple Juice", 50, "Fresh tropical pineapple juice", CategoryBeverages),
		item("43", "House Blend Iced Tea", 60, "Signature refreshing iced tea", CategoryBeverages),
		item("44", "Cucumber Iced Tea", 60, "Cooling cucumber-infused iced tea", CategoryBeverages),
		item("45", "Bottled Water", 25, "Pure drinking water", CategoryBeverages),

		item("24", "Lecheng Saging (Saba, Leche Flan, and Saging Con Yelo)", 140, "Banana and leche flan dessert combo", CategoryDesserts),
		item("25", "Lecheng Mais (Leche Flan & Mais Con Yelo)", 120, "Corn and leche flan sweet treat", CategoryDesserts),
		item("26", "Lecheng Coffee Jelly (Coffee Jelly, Leche Flan, & Sago Con Yelo)", 130, "Coffee jelly with leche flan and sago", CategoryDesserts),
		item("27", "Nagkanda Leche-Leche (Saba, Mais, Coffee Jelly, Leche Flan, & Mais Con Yelo)", 180, "Ultimate dessert combo with all the fixings", CategoryDesserts),

		item("28", "Longpia (Jumbo Lumpiang Gulay)", 60, "Large vegetable spring rolls", CategoryExtras),
		item("29", "Rest in Fish (Crispy Tawilis)", 100, "Crispy fried small fish delicacy", CategoryExtras),
		item("30", "Plain Rice", 30, "Steamed white rice", CategoryExtras),
		item("31", "Garlic Rice", 35, "Fragrant garlic fried rice", CategoryExtras),
		item("32", "Bagoong Rice", 40, "Rice with savory shrimp paste", CategoryExtras),
		item("33", "Java Rice", 40, "Turmeric-colored seasoned rice", CategoryExtras),
		item("34", "Ensalada", 10, "Fresh vegetable salad", CategoryExtras),
		item("35", "Kare Kare Sauce", 30, "Rich peanut sauce", CategoryExtras),
		item("36", "Chili Sauce", 10, "Spicy chili condiment", CategoryExtras),
	},
}
