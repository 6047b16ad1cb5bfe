package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jhoicas/ventas-dashboard/internal/application/auth"
	"github.com/jhoicas/ventas-dashboard/internal/application/dto"
	"github.com/jhoicas/ventas-dashboard/internal/domain"
	"github.com/jhoicas/ventas-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-dashboard/pkg/config"
	"github.com/jhoicas/ventas-dashboard/pkg/logger"
)

// Alta de usuarios del dashboard. Si el usuario ya existe no se modifica.
// Uso: go run ./cmd/create_user [--usuario ana] [--password ...]
// Sin flags pide los datos por consola; también acepta CREATE_USER_PASSWORD.
func main() {
	var username, password string
	pflag.StringVarP(&username, "usuario", "u", "", "nombre de usuario")
	pflag.StringVarP(&password, "password", "p", os.Getenv("CREATE_USER_PASSWORD"), "contraseña (texto plano)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	in := bufio.NewReader(os.Stdin)
	if username == "" {
		username = prompt(in, "Ingrese el nombre de usuario: ")
	}
	if password == "" {
		password = prompt(in, "Ingrese la contraseña: ")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// El alta no emite tokens: el secreto de sesión no se usa aquí.
	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.SessionConfig{})
	res, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Username: username, Password: password})
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		fmt.Fprintln(os.Stderr, "Error: el usuario y la contraseña no pueden estar vacíos.")
		pool.Close()
		os.Exit(2)
	case err != nil:
		pool.Close()
		log.Fatal().Err(err).Msg("crear usuario")
	case res.Created:
		fmt.Printf("Usuario '%s' fue añadido.\n", res.Username)
	default:
		fmt.Printf("El usuario '%s' ya existía; no se modificó.\n", res.Username)
	}
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}
