// token emite un JWT firmado con JWT_SECRET para probar las rutas protegidas.
//
// Uso: go run ./cmd/token --user ops-1 --role bodeguero [--exp 120]
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jsuarez/inventario-api/pkg/config"
	"github.com/jsuarez/inventario-api/pkg/jwt"
)

func main() {
	flags := pflag.NewFlagSet("token", pflag.ExitOnError)
	flags.String("user", "", "ID del usuario (subject del token)")
	flags.String("role", jwt.RoleBodeguero, "rol: admin, bodeguero o vendedor")
	flags.Int("exp", 0, "expiración en minutos (default JWT_EXPIRATION_MINUTES)")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		fail("leer flags: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}
	if cfg.JWT.Secret == "" {
		fail("JWT_SECRET no está configurado")
	}

	userID := strings.TrimSpace(v.GetString("user"))
	if userID == "" {
		fail("--user es requerido")
	}
	role := strings.ToLower(v.GetString("role"))
	switch role {
	case jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor:
	default:
		fail("rol inválido %q", role)
	}
	exp := v.GetInt("exp")
	if exp <= 0 {
		exp = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, exp)
	if err != nil {
		fail("generar token: %v", err)
	}
	fmt.Println(tok)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
