package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/application/usecase"
	"github.com/jhoicas/abs-rental-api/internal/domain"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/infrastructure/postgres"
)

func adminCmd() *cobra.Command {
	var in dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Crea la cuenta de administrador (o promueve una existente)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, log, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			users := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
			in.Role = entity.RoleAdmin
			if in.Name == "" {
				in.Name = "Administrador"
			}

			_, err = users.Create(ctx, in)
			if errors.Is(err, domain.ErrEmailAlreadyExists) {
				role, status := entity.RoleAdmin, entity.UserStatusActive
				if _, err := users.Update(ctx, in.Email, dto.UpdateUserRequest{Role: &role, Status: &status}); err != nil {
					return err
				}
				log.Info().Str("email", in.Email).Msg("cuenta existente promovida a admin")
				return nil
			}
			if err != nil {
				return err
			}
			log.Info().Str("email", in.Email).Msg("admin creado")
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.Name, "name", "", "nombre visible")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
