package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/usecase"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/postgres"
	"github.com/jhoicas/abs-rental-api/pkg/logger"
)

type catalogFile struct {
	Products []catalogProduct `yaml:"products"`
}

type catalogProduct struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Stock       int      `yaml:"stock"`
	PriceRent   float64  `yaml:"price_rent"`
	Width       *float64 `yaml:"width"`
	Height      *float64 `yaml:"height"`
}

func catalogCmd() *cobra.Command {
	var latin1 bool
	cmd := &cobra.Command{
		Use:   "catalog <archivo.yaml>",
		Short: "Crea o actualiza productos desde un archivo YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var r io.Reader = f
			if latin1 {
				// Exportes de hojas de cálculo antiguas vienen en ISO-8859-1.
				r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
			}
			products, err := parseCatalog(r)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, log, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			created, updated, err := upsertCatalog(ctx, usecase.NewProductUseCase(postgres.NewProductRepository(pool)), products, log)
			if err != nil {
				return err
			}
			log.Info().Int("created", created).Int("updated", updated).Msg("catálogo cargado")
			return nil
		},
	}
	cmd.Flags().BoolVar(&latin1, "latin1", false, "el archivo está en ISO-8859-1")
	return cmd
}

// parseCatalog lee el YAML y lo convierte en solicitudes de alta.
func parseCatalog(r io.Reader) ([]dto.CreateProductRequest, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	if len(file.Products) == 0 {
		return nil, errors.New("el catálogo no tiene productos")
	}
	out := make([]dto.CreateProductRequest, 0, len(file.Products))
	for i, p := range file.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("producto %d (%q): id requerido para poder recargar el catálogo", i+1, p.Name)
		}
		out = append(out, dto.CreateProductRequest{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Description: p.Description,
			Image:       p.Image,
			Stock:       p.Stock,
			PriceRent:   decimal.NewFromFloat(p.PriceRent),
			Width:       optionalDecimal(p.Width),
			Height:      optionalDecimal(p.Height),
		})
	}
	return out, nil
}

// upsertCatalog crea los productos nuevos y actualiza los existentes por ID.
func upsertCatalog(ctx context.Context, uc *usecase.ProductUseCase, products []dto.CreateProductRequest, log *logger.Logger) (created, updated int, err error) {
	for _, p := range products {
		_, err := uc.Create(ctx, p)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			if _, err := uc.Update(ctx, p.ID, toUpdate(p)); err != nil {
				return created, updated, fmt.Errorf("actualizar %s: %w", p.ID, err)
			}
			updated++
		default:
			return created, updated, fmt.Errorf("crear %s: %w", p.ID, err)
		}
		log.Debug().Str("product_id", p.ID).Msg("producto cargado")
	}
	return created, updated, nil
}

func toUpdate(p dto.CreateProductRequest) dto.UpdateProductRequest {
	return dto.UpdateProductRequest{
		Name:        &p.Name,
		Category:    &p.Category,
		Description: &p.Description,
		Image:       &p.Image,
		Stock:       &p.Stock,
		PriceRent:   &p.PriceRent,
		Width:       p.Width,
		Height:      p.Height,
	}
}

func optionalDecimal(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
