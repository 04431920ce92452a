package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kama/internal/client"
	"kama/internal/domain"
	"kama/internal/events"
	"kama/internal/money"
	"kama/internal/poller"
	"kama/internal/service"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "admin", Short: "Back-office: categories, products, orders"}
	cmd.AddCommand(
		newAdminCategoriesCmd(a),
		newAdminProductsCmd(a),
		newAdminOrdersCmd(a),
		&cobra.Command{
			Use:   "stats",
			Short: "Dashboard counters",
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := a.api.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printf(cmd, "categories %d, products %d\n", st.Categories, st.Products)
				printf(cmd, "orders %d: pending %d, completed %d, cancelled %d\n",
					st.Orders, st.PendingOrders, st.CompletedOrders, st.CancelledOrders)
				printf(cmd, "revenue %s\n", money.Format(st.Revenue))
				return nil
			},
		},
	)
	return cmd
}

func newAdminCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "categories", Short: "Manage categories"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.api.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cats {
				n := 0
				if c.Count != nil {
					n = c.Count.Products
				}
				printf(cmd, "%s  %-3d %-20s %-24s %d products\n", c.ID, c.SortOrder, c.Name, c.Slug, n)
			}
			return nil
		},
	})

	var in client.CategoryInput
	var icon string
	bind := func(c *cobra.Command) {
		c.Flags().StringVar(&in.Name, "name", "", "category name")
		c.Flags().StringVar(&in.Slug, "slug", "", "URL slug (default: generated from name)")
		c.Flags().StringVar(&icon, "icon", "", "icon reference")
		c.Flags().IntVar(&in.SortOrder, "sort", 0, "display order")
	}
	withIcon := func() client.CategoryInput {
		out := in
		if icon != "" {
			out.Icon = &icon
		}
		return out
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.api.CreateCategory(cmd.Context(), withIcon())
			if err != nil {
				return err
			}
			printf(cmd, "created %s (%s)\n", c.ID, c.Slug)
			return nil
		},
	}
	bind(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.api.UpdateCategory(cmd.Context(), args[0], withIcon())
			if err != nil {
				return err
			}
			printf(cmd, "updated %s (%s)\n", c.ID, c.Slug)
			return nil
		},
	}
	bind(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category together with all its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.api.DeleteCategory(cmd.Context(), args[0])
		},
	}
	cmd.AddCommand(create, update, del)
	return cmd
}

func newAdminProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Manage products"}

	var categoryFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.api.ListProducts(cmd.Context(), categoryFilter)
			if err != nil {
				return err
			}
			for _, p := range products {
				cat := ""
				if p.Category != nil {
					cat = p.Category.Name
				}
				printf(cmd, "%s  %-28s %-16s %s  %d variants\n", p.ID, p.Name, cat, money.Format(p.Price), len(p.Variants))
			}
			return nil
		},
	}
	list.Flags().StringVar(&categoryFilter, "category", "", "filter by category id")

	var (
		name, description, categoryID string
		colors, sizes, images         string
		price                         int64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product; variants are every color × size pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := client.ProductInput{
				Name:       name,
				Price:      price,
				CategoryID: categoryID,
				Colors:     service.SplitList(colors),
				Sizes:      service.SplitList(sizes),
			}
			if description != "" {
				in.Description = &description
			}
			for i, url := range service.SplitList(images) {
				in.Images = append(in.Images, client.ImageInput{URL: url, IsMain: i == 0})
			}
			p, err := a.api.CreateProduct(cmd.Context(), in)
			if err != nil {
				return err
			}
			printf(cmd, "created %s with %d variants\n", p.ID, len(p.Variants))
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "product name")
	create.Flags().StringVar(&description, "description", "", "description")
	create.Flags().Int64Var(&price, "price", 0, "price in soʻm")
	create.Flags().StringVar(&categoryID, "category", "", "category id")
	create.Flags().StringVar(&colors, "colors", "", "comma separated colors")
	create.Flags().StringVar(&sizes, "sizes", "", "comma separated sizes")
	create.Flags().StringVar(&images, "images", "", "comma separated image URLs, the first one is main")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update name, description, price and category (variants stay as they are)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.api.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := client.ProductUpdate{Name: cur.Name, Description: cur.Description, Price: cur.Price, CategoryID: cur.CategoryID}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("price") {
				in.Price = price
			}
			if cmd.Flags().Changed("category") {
				in.CategoryID = categoryID
			}
			p, err := a.api.UpdateProduct(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			printf(cmd, "updated %s\n", p.ID)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "product name")
	update.Flags().StringVar(&description, "description", "", "description")
	update.Flags().Int64Var(&price, "price", 0, "price in soʻm")
	update.Flags().StringVar(&categoryID, "category", "", "category id")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.api.DeleteProduct(cmd.Context(), args[0])
		},
	}
	cmd.AddCommand(list, create, update, del)
	return cmd
}

func newAdminOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "View and process orders"}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.api.ListOrders(cmd.Context(), domain.OrderStatus(strings.ToUpper(status)))
			if err != nil {
				return err
			}
			printOrders(cmd, orders)
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "PENDING, COMPLETED or CANCELLED")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one order with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("order id: %w", err)
			}
			o, err := a.api.GetOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOrders(cmd, []domain.Order{*o})
			for _, it := range o.Items {
				printf(cmd, "    %-24s %s/%s x%d  %s\n", it.Name, it.Color, it.Size, it.Quantity,
					money.Format(money.Subtotal(it.Price, it.Quantity)))
			}
			return nil
		},
	}

	setStatus := &cobra.Command{
		Use:   "status <id> <COMPLETED|CANCELLED>",
		Short: "Complete or cancel a pending order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("order id: %w", err)
			}
			o, err := a.api.UpdateOrderStatus(cmd.Context(), id, domain.OrderStatus(strings.ToUpper(args[1])))
			if err != nil {
				return err
			}
			printf(cmd, "order #%d is %s\n", o.ID, o.Status)
			return nil
		},
	}

	var interval time.Duration
	var live bool
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Keep the order list refreshed until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if live {
				return events.Subscribe(ctx, a.api.WebsocketURL(), func(ev events.Event) {
					printf(cmd, "%s %s ", time.Now().Format("15:04:05"), ev.Type)
					printOrders(cmd, []domain.Order{ev.Order})
				})
			}
			p := poller.New(interval, func(ctx context.Context) {
				orders, err := a.api.ListOrders(ctx, "")
				if err != nil {
					// как и на экране админки, ошибка не показывается, остаётся прошлый список
					log.Printf("refresh orders: %v", err)
					return
				}
				printf(cmd, "-- %s, %d orders\n", time.Now().Format("15:04:05"), len(orders))
				printOrders(cmd, orders)
			})
			p.Start(ctx)
			<-ctx.Done()
			p.Stop()
			return nil
		},
	}
	watch.Flags().DurationVar(&interval, "interval", poller.DefaultInterval, "refresh period")
	watch.Flags().BoolVar(&live, "live", false, "follow the websocket feed instead of polling")

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Download orders as an Excel file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := a.api.ExportOrders(cmd.Context(), domain.OrderStatus(strings.ToUpper(status)), f); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printf(cmd, "saved %s\n", out)
			return nil
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "orders.xlsx", "output file")
	export.Flags().StringVar(&status, "status", "", "PENDING, COMPLETED or CANCELLED")

	cmd.AddCommand(list, get, setStatus, watch, export)
	return cmd
}

func printOrders(cmd *cobra.Command, orders []domain.Order) {
	for _, o := range orders {
		printf(cmd, "#%-5d %-10s %-16s %d items  %s\n", o.ID, o.Status, money.Format(o.Total), len(o.Items),
			o.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
