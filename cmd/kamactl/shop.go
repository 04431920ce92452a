package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kama/internal/catalog"
	"kama/internal/checkout"
	"kama/internal/money"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "catalog", Short: "Browse categories and products"}

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List categories with product counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats := catalog.New(a.api).Home(cmd.Context())
			if len(cats) == 0 {
				printf(cmd, "no categories\n")
			}
			for _, c := range cats {
				n := 0
				if c.Count != nil {
					n = c.Count.Products
				}
				printf(cmd, "%-24s %-20s %d products\n", c.Slug, c.Name, n)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "category <slug>",
		Short: "Show a category and its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := catalog.New(a.api).Category(cmd.Context(), args[0])
			if c == nil {
				printf(cmd, "category not found\n")
				return nil
			}
			printf(cmd, "%s\n", c.Name)
			for _, p := range c.Products {
				printf(cmd, "  %s  %-30s %s\n", p.ID, p.Name, money.Format(p.Price))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "product <id>",
		Short: "Show a product with colors, sizes and stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := catalog.New(a.api).Product(cmd.Context(), args[0])
			if v == nil {
				printf(cmd, "product not found\n")
				return nil
			}
			printf(cmd, "%s  %s\n", v.Product.Name, money.Format(v.Product.Price))
			if v.Product.Description != nil {
				printf(cmd, "%s\n", *v.Product.Description)
			}
			for _, color := range v.Colors {
				printf(cmd, "  %s:", color)
				for _, size := range v.Sizes {
					mark := ""
					if !v.InStock(color, size) {
						mark = "(нет)"
					}
					printf(cmd, " %s%s", size, mark)
				}
				printf(cmd, "\n")
			}
			return nil
		},
	})
	return cmd
}

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Manage the local cart"}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print cart contents and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cart()
			if err != nil {
				return err
			}
			items := store.Items()
			if len(items) == 0 {
				printf(cmd, "cart is empty\n")
				return nil
			}
			for _, it := range items {
				printf(cmd, "%s %-24s %s/%s x%d  %s\n", it.ProductID, it.Name, it.Color, it.Size, it.Quantity,
					money.Format(money.Subtotal(it.Price, it.Quantity)))
			}
			printf(cmd, "%d items, total %s\n", store.TotalItems(), money.Format(store.TotalPrice()))
			return nil
		},
	})

	var color, size string
	var qty int
	add := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product variant to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := catalog.New(a.api).Product(cmd.Context(), args[0])
			if v == nil {
				return errors.New("product not found")
			}
			defColor, defSize := v.DefaultSelection()
			if color == "" {
				color = defColor
			}
			if size == "" {
				size = defSize
			}
			item, err := v.CartItem(color, size, qty)
			if err != nil {
				return err
			}
			store, err := a.cart()
			if err != nil {
				return err
			}
			if err := store.AddItem(item); err != nil {
				return err
			}
			printf(cmd, "added %s %s/%s x%d, cart has %d items\n", item.Name, color, size, qty, store.TotalItems())
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "variant color (default: first color)")
	add.Flags().StringVar(&size, "size", "", "variant size (default: first size)")
	add.Flags().IntVar(&qty, "qty", 1, "quantity")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "set <productId> <color> <size> <quantity>",
		Short: "Change quantity of a cart line (minimum 1)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("quantity: %w", err)
			}
			store, err := a.cart()
			if err != nil {
				return err
			}
			return store.UpdateQuantity(args[0], args[1], args[2], q)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <productId> <color> <size>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cart()
			if err != nil {
				return err
			}
			return store.RemoveItem(args[0], args[1], args[2])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cart()
			if err != nil {
				return err
			}
			return store.Clear()
		},
	})
	return cmd
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Submit the cart as an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cart()
			if err != nil {
				return err
			}
			if store.Len() == 0 {
				return errors.New("cart is empty")
			}
			conf, err := checkout.New(a.api).Submit(cmd.Context(), store)
			if err != nil {
				return err
			}
			printf(cmd, "order #%d placed: %d lines, %s\n", conf.OrderID, conf.Items, money.Format(conf.Total))
			return nil
		},
	}
}
