//go:build ignore

// Probe the running API for one subject's entitlement and a set of paths.
//
//	go run scripts/resolve_probe.go -token <jwt> /dashboard /admin /corporate
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/fatih/color"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	baseURL := flag.String("base", "http://localhost:3000", "API base URL")
	token := flag.String("token", os.Getenv("PROBE_TOKEN"), "bearer token for the subject")
	flag.Parse()

	if *token == "" {
		log.Fatal("a bearer token is required (-token or PROBE_TOKEN)")
	}

	var resolved struct {
		Role           string          `json:"role"`
		HomePath       string          `json:"home_path"`
		LifecycleState json.RawMessage `json:"lifecycle_state"`
	}
	if err := call(*baseURL+"/api/entitlement/resolve", *token, &resolved); err != nil {
		log.Fatalf("resolve failed: %v", err)
	}

	color.Cyan("role:      %s", resolved.Role)
	color.Cyan("home:      %s", resolved.HomePath)
	color.Cyan("lifecycle: %s", string(resolved.LifecycleState))

	for _, path := range flag.Args() {
		var check struct {
			Decision   string `json:"decision"`
			RedirectTo string `json:"redirect_to"`
		}
		if err := call(*baseURL+"/api/entitlement/check?path="+path, *token, &check); err != nil {
			color.Red("%-30s error: %v", path, err)
			continue
		}
		if check.Decision == "allow" {
			color.Green("%-30s allow", path)
		} else {
			color.Yellow("%-30s redirect -> %s", path, check.RedirectTo)
		}
	}
}

func call(url, token string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("%s (%d)", env.Message, res.StatusCode)
	}
	return json.Unmarshal(env.Data, out)
}
