package main

import (
	"context"
	"fmt"
	"os"

	"github.com/abellastitches/storefront/internal/domain"
	"github.com/abellastitches/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedAdminName     = "Admin"
	seedAdminEmail    = "abellastitches@gmail.com"
	seedAdminPassword = "Matthew7:7"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Wipe and repopulate the catalog with sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context())
		},
	}
}

func seed(ctx context.Context) error {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = "postgres://storefront@localhost:5432/storefront?sslmode=disable"
	}

	pool, err := repository.NewPool(ctx, connStr)
	if err != nil {
		return fmt.Errorf("repository.NewPool: %w", err)
	}
	defer pool.Close()

	if err := repository.ApplySchema(ctx, pool); err != nil {
		return fmt.Errorf("repository.ApplySchema: %w", err)
	}

	if _, err := pool.Exec(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM admin_users"); err != nil {
		return fmt.Errorf("delete admin users: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	admins := repository.NewAdminUser(pool)
	if _, err := admins.InsertAdminUser(ctx, domain.AdminUser{
		Name:         seedAdminName,
		Email:        seedAdminEmail,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("admins.InsertAdminUser: %w", err)
	}

	products := repository.NewProduct(pool)
	for _, product := range sampleProducts() {
		if _, err := products.InsertProduct(ctx, product); err != nil {
			return fmt.Errorf("products.InsertProduct[%s]: %w", product.ProductName, err)
		}
	}

	fmt.Printf("Seeded %d products and the admin user %s\n", len(sampleProducts()), seedAdminEmail)

	return nil
}

// sampleProducts is the demo catalog, prices in Naira.
func sampleProducts() []domain.Product {
	ngn := func(major int64) domain.Money {
		return domain.NGN(decimal.NewFromInt(major))
	}

	return []domain.Product{
		{
			ProductName: "Classic Adire Indigo Dress",
			Category:    "Adire",
			Price:       ngn(45000),
			ImageURL:    "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?w=600",
			Description: "Handcrafted traditional Adire dress with authentic indigo dye patterns. Features intricate tie-dye designs passed down through generations.",
		},
		{
			ProductName: "Ankara Print Maxi Skirt",
			Category:    "Ankara",
			Price:       ngn(32000),
			ImageURL:    "https://images.unsplash.com/photo-1583496661160-fb5886a0aaaa?w=600",
			Description: "Vibrant Ankara print maxi skirt with bold geometric patterns. Perfect for both casual and formal occasions.",
		},
		{
			ProductName: "Batik Cotton Blouse",
			Category:    "Batik",
			Price:       ngn(28000),
			ImageURL:    "https://images.unsplash.com/photo-1585487000160-6ebcfceb0d03?w=600",
			Description: "Lightweight batik cotton blouse featuring traditional wax-resist dyeing techniques. Comfortable and stylish.",
		},
		{
			ProductName: "Tie-Dye Streetwear Set",
			Category:    "Streetwear",
			Price:       ngn(60000),
			ImageURL:    "https://images.unsplash.com/photo-1576566588028-4147f3842f27?w=600",
			Description: "Modern streetwear set with contemporary tie-dye patterns. Includes matching top and joggers.",
		},
		{
			ProductName: "Traditional Adire Wrapper",
			Category:    "Adire",
			Price:       ngn(38000),
			ImageURL:    "https://images.unsplash.com/photo-1595777457583-95e059d581b8?w=600",
			Description: "Authentic Adire wrapper cloth with deep indigo hues. Can be styled in multiple ways for various occasions.",
		},
		{
			ProductName: "Ankara Jumpsuit",
			Category:    "Ankara",
			Price:       ngn(48000),
			ImageURL:    "https://images.unsplash.com/photo-1562137369-1a1a0bc66744?w=600",
			Description: "Statement Ankara jumpsuit with contemporary cut. Features vibrant prints and comfortable fit.",
		},
		{
			ProductName: "Batik Kimono Jacket",
			Category:    "Batik",
			Price:       ngn(40000),
			ImageURL:    "https://images.unsplash.com/photo-1591047139829-d91aecb6caea?w=600",
			Description: "Elegant batik kimono jacket perfect for layering. Showcases intricate traditional patterns.",
		},
		{
			ProductName: "Urban Tie-Dye Hoodie",
			Category:    "Streetwear",
			Price:       ngn(35000),
			ImageURL:    "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=600",
			Description: "Trendy tie-dye hoodie blending African techniques with urban style. Premium cotton material.",
		},
	}
}
