package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/shop"
	"github.com/ariefcatur/go-storefront/internal/storage"
)

func productCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage catalog products",
	}
	cmd.AddCommand(productAddCmd(), productListCmd())
	return cmd
}

func productAddCmd() *cobra.Command {
	var (
		p         shop.Product
		price     string
		imagePath string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product, optionally uploading its image",
		Example: `  shopctl product add --name Mug --short "Ceramic mug" --price 9.99 --stock 10 --image ./mug.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("--price: %w", err)
			}
			p.Price = d.Round(2)

			if imagePath != "" {
				key, err := uploadImage(cmd, imagePath)
				if err != nil {
					return err
				}
				p.Image = key
			}

			db, err := postgres.Connect(ctx, cfg.PostgresDSN, "shopctl")
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer db.Close()

			svc := &shop.Service{Store: &shop.Repo{DB: db}}
			created, err := svc.CreateProduct(ctx, p)
			if err != nil {
				return err
			}

			// list di cache sudah basi
			rdb := redisx.New(cfg.RedisAddr)
			defer rdb.Close()
			cache := &redisx.CatalogCache{RDB: rdb}
			if err := cache.Invalidate(ctx, created.ID); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache invalidate: %v\n", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created product %d (%s)\n", created.ID, created.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "product name (max 255)")
	f.StringVar(&p.ShortDescription, "short", "", "short description (max 255)")
	f.StringVar(&p.LongDescription, "long", "", "long description")
	f.StringVar(&price, "price", "", "price, e.g. 9.99")
	f.IntVar(&p.Stock, "stock", 0, "units in stock")
	f.StringVar(&imagePath, "image", "", "image file to upload to MinIO")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func uploadImage(cmd *cobra.Command, path string) (string, error) {
	if cfg.MinioEndpoint == "" {
		return "", fmt.Errorf("--image needs MINIO_ENDPOINT")
	}
	img, err := storage.NewImages(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioSecure)
	if err != nil {
		return "", err
	}
	if err := img.EnsureBucket(cmd.Context()); err != nil {
		return "", fmt.Errorf("bucket %s: %w", cfg.MinioBucket, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return "", err
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return img.Upload(cmd.Context(), filepath.Base(path), f, st.Size(), ct)
}

func productListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := postgres.Connect(cmd.Context(), cfg.PostgresDSN, "shopctl")
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer db.Close()

			svc := &shop.Service{Store: &shop.Repo{DB: db}}
			ps, err := svc.ListProducts(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tIMAGE")
			for _, p := range ps {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Stock, p.Image)
			}
			return w.Flush()
		},
	}
}
