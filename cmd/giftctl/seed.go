package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/gifting-backend-go/internal/app"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/spf13/cobra"
)

// demoEmployees are created by the seed command
var demoEmployees = []employee.CreateEmployeeRequest{
	{
		FullName:   "Ana Paula Ferreira",
		BirthDate:  "1990-03-10",
		Role:       "Analista Financeira",
		Department: "Financeiro",
		Address: &employee.AddressRequest{
			CEP: "01001-000", Street: "Praça da Sé", Number: "100",
			Neighborhood: "Sé", City: "São Paulo", State: "SP",
		},
	},
	{
		FullName:   "Bruno Carvalho",
		BirthDate:  "1985-12-31",
		Role:       "Desenvolvedor",
		Department: "Tecnologia",
		Address: &employee.AddressRequest{
			CEP: "20040-002", Street: "Avenida Rio Branco", Number: "1",
			Neighborhood: "Centro", City: "Rio de Janeiro", State: "RJ",
		},
	},
	{
		FullName:   "Carla Souza",
		BirthDate:  "2000-02-29",
		Role:       "Designer",
		Department: "Marketing",
		Address: &employee.AddressRequest{
			CEP: "30130-010", Street: "Avenida Afonso Pena", Number: "1212",
			Neighborhood: "Centro", City: "Belo Horizonte", State: "MG",
		},
	},
	{
		FullName:   "Diego Lima",
		BirthDate:  "1993-01-02",
		Role:       "Vendedor",
		Department: "Comercial",
		Address: &employee.AddressRequest{
			CEP: "80010-000", Street: "Rua XV de Novembro", Number: "50",
			Neighborhood: "Centro", City: "Curitiba", State: "PR",
		},
	},
}

func newSeedCmd() *cobra.Command {
	var (
		organizationName string
		ownerName        string
		email            string
		password         string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo organization with its owner, gift catalog and employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				register := auth.RegisterRequest{
					OrganizationName: organizationName,
					Name:             ownerName,
					Email:            email,
					Password:         password,
					ConfirmPassword:  password,
				}
				if err := register.Validate(); err != nil {
					return err
				}

				tokens, err := a.Auth.Register(cmd.Context(), register, auth.SessionTrackingRequest{UserAgent: "giftctl"})
				if err != nil {
					return fmt.Errorf("register owner: %w", err)
				}

				ctx, err := authenticated(cmd.Context(), a, tokens.AccessToken)
				if err != nil {
					return err
				}

				for _, req := range demoEmployees {
					if err := req.Validate(); err != nil {
						return fmt.Errorf("%s: %w", req.FullName, err)
					}
					created, err := a.Employees.CreateEmployee(ctx, req)
					if err != nil {
						return fmt.Errorf("create %s: %w", req.FullName, err)
					}
					slog.Info("Employee seeded", "name", created.FullName, "next_birthday", created.NextBirthday, "trigger_date", created.TriggerDate)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "seeded organization %q, sign in as %s\n", organizationName, email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&organizationName, "organization", "Empresa Demo", "organization name")
	cmd.Flags().StringVar(&ownerName, "name", "Dona Demo", "owner name")
	cmd.Flags().StringVar(&email, "email", "owner@demo.com.br", "owner email")
	cmd.Flags().StringVar(&password, "password", "demo-password", "owner password")
	return cmd
}

// authenticated returns ctx carrying the verified claims of accessToken, the
// same way the HTTP verifier does
func authenticated(ctx context.Context, a *app.App, accessToken string) (context.Context, error) {
	token, err := jwtauth.VerifyToken(a.JWT.JWTAuth(), accessToken)
	if err != nil {
		return nil, fmt.Errorf("verify seed token: %w", err)
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}
