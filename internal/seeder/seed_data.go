package seeder

type BrandSeed struct {
	Name        string
	Slug        string
	Description string
}

type ItemSeed struct {
	Name     string
	Price    float64
	Category string
}

var Brands = []BrandSeed{
	{Name: "Healthy Foodz", Slug: "healthy-foodz", Description: "Fresh and healthy meals"},
	{Name: "Tazty Foodz", Slug: "tazty-foodz", Description: "Delicious comfort food"},
	{Name: "Ideal Foodz", Slug: "ideal-foodz", Description: "Balanced meals for everyone"},
}

// Menus maps brand slug to its canonical menu. healthy-foodz has none yet.
var Menus = map[string][]ItemSeed{
	"ideal-foodz": {
		{"Paneer Butter Masala", 220, "Main Curries"},
		{"Chicken Butter Masala", 260, "Main Curries"},
		{"Paneer Masala", 200, "Main Curries"},
		{"Kadai Chicken", 270, "Main Curries"},
		{"Chicken Curry", 240, "Main Curries"},
		{"Chicken Soup", 120, "Soups & Starters"},
		{"Chicken Roast Fry", 220, "Soups & Starters"},
		{"Veg Manchurian", 180, "Soups & Starters"},
		{"Chicken 65", 230, "Soups & Starters"},
		{"Chicken Biryani", 240, "Biryani & Rice"},
		{"Veg Biryani", 180, "Biryani & Rice"},
		{"Paneer Biryani", 210, "Biryani & Rice"},
		{"Bagara Rice", 150, "Biryani & Rice"},
		{"Jeera Rice", 140, "Biryani & Rice"},
		{"Curd Rice", 100, "Biryani & Rice"},
		{"Roti", 15, "Breads"},
		{"Chapathi", 20, "Breads"},
		{"Plain Naan", 30, "Breads"},
		{"Butter Naan", 40, "Breads"},
		{"Papad", 20, "Sides"},
		{"Raita", 30, "Sides"},
		{"Water Bottle", 20, "Sides"},
	},
	"tazty-foodz": {
		{"Chicken Pizza", 249, "Pizza"},
		{"Extra Cheese Pizza", 229, "Pizza"},
		{"Corn Pizza", 209, "Pizza"},
		{"Paneer Pizza", 239, "Pizza"},
		{"Egg Pizza", 219, "Pizza"},
		{"Veg Pizza", 199, "Pizza"},
		{"Extra Spicy Pizza", 229, "Pizza"},
		{"Plain Maggie", 69, "Maggie"},
		{"Egg Maggie", 89, "Maggie"},
		{"Cheese Maggie", 99, "Maggie"},
		{"Special Maggie", 119, "Maggie"},
		{"Paneer Maggie", 109, "Maggie"},
		{"French Fries", 89, "Starters"},
		{"Chicken Soup", 129, "Starters"},
		{"Chicken Roast Fry", 189, "Starters"},
		{"Egg Fry (2)", 59, "Starters"},
		{"Omelette", 59, "Starters"},
		{"Chicken Shawarma", 179, "Starters"},
		{"Chicken Frankie", 139, "Starters"},
		{"Egg Frankie", 99, "Starters"},
		{"White Sauce Pasta", 159, "Pasta"},
		{"Red Sauce Pasta", 149, "Pasta"},
		{"Pink Sauce Pasta", 169, "Pasta"},
		{"Bagara Rice with Chicken Curry", 179, "Chicken Curries"},
		{"Chicken Biryani", 219, "Chicken Curries"},
		{"Curd Rice", 79, "Rice & Meals"},
		{"Tomato Rice", 89, "Rice & Meals"},
		{"Fried Rice", 129, "Rice & Meals"},
		{"Chapathi (2 pcs)", 49, "Breads"},
		{"Bread Jam", 39, "Breads"},
		{"Tomato Sauce (dip)", 10, "Breads"},
		{"Mayonnaise (dip)", 15, "Breads"},
		{"Extra Chilli Flakes (per pack)", 10, "Breads"},
		{"Extra Oregano (per pack)", 10, "Breads"},
		{"Pepsi", 40, "Beverages"},
		{"Maaza", 40, "Beverages"},
		{"Thums Up", 40, "Beverages"},
		{"Sprite", 40, "Beverages"},
		{"Water Bottle", 20, "Beverages"},
		{"Coffee", 30, "Beverages"},
		{"Black Coffee", 25, "Beverages"},
		{"Milk", 25, "Beverages"},
		{"Boost (hot/cold)", 30, "Beverages"},
		{"Horlicks", 40, "Beverages"},
		{"Chai Biscuits", 30, "Snacks & Desserts"},
		{"Popcorn (Small) - Cheese", 50, "Snacks & Desserts"},
		{"Popcorn (Small) - Masala", 50, "Snacks & Desserts"},
		{"Popcorn (Small) - Salty", 50, "Snacks & Desserts"},
		{"Popcorn (Medium) - Cheese", 80, "Snacks & Desserts"},
		{"Popcorn (Medium) - Masala", 80, "Snacks & Desserts"},
		{"Popcorn (Medium) - Salty", 80, "Snacks & Desserts"},
		{"Popcorn (Large) - Cheese", 120, "Snacks & Desserts"},
		{"Popcorn (Large) - Masala", 120, "Snacks & Desserts"},
		{"Popcorn (Large) - Salty", 120, "Snacks & Desserts"},
	},
}
