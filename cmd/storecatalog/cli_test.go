package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkchain/storecatalog/internal/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func put(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	put(t, dir, "public/catalog/meta.json", `{"store":{"name":"CLI Shop"},"products":[{"id":"P1","title":"Portrait pack","priceTHB":1000,"image":"/images/P1.webp"}]}`)
	put(t, dir, "public/catalog/rates.json", `{"THB_USD":0.028,"updatedAt":"2024-05-01","fxPolicy":{"usd":{"round":{"mode":"ceil-endswith-99"}}}}`)
	put(t, dir, "public/products/prompts/P1.zip", "zip")
	put(t, dir, "public/images/P1.webp", "img")
	put(t, dir, "public/qr-promptpay.png", "qr")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := newCLI()
	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetErr(&out)
	err := c.execute(args)
	return out.String(), err
}

func TestBuildWritesGeneratedDocument(t *testing.T) {
	dir := project(t)
	out, err := run(t, "--workdir", dir, "build", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 products")
	assert.FileExists(t, filepath.Join(dir, "public/catalog/auto.json"))
	assert.FileExists(t, filepath.Join(dir, "data/catalog.db"))
}

func TestVerifyVerdicts(t *testing.T) {
	dir := project(t)
	out, err := run(t, "--workdir", dir, "verify", "--offline", "--strict")
	require.NoError(t, err, out)
	assert.Contains(t, out, "VERIFY: 1 products, 0 errors, 0 warnings")
	assert.FileExists(t, filepath.Join(dir, "public/catalog/auto.json"))

	require.NoError(t, os.Remove(filepath.Join(dir, "public/qr-promptpay.png")))
	out, err = run(t, "--workdir", dir, "verify", "--offline", "--no-write")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 warnings")

	_, err = run(t, "--workdir", dir, "verify", "--offline", "--strict", "--no-write")
	assert.True(t, errors.Is(err, domain.ErrStructuralFailure))
}

func TestVerifyFailsOnBrokenRateSheet(t *testing.T) {
	dir := project(t)
	put(t, dir, "public/catalog/rates.json", `{"THB_USD": "lots"}`)
	out, err := run(t, "--workdir", dir, "verify", "--offline")
	assert.Error(t, err)
	assert.Contains(t, out, "1 errors")
	assert.NoFileExists(t, filepath.Join(dir, "public/catalog/auto.json"))
}

func TestPrice(t *testing.T) {
	dir := project(t)
	out, err := run(t, "--workdir", dir, "price", "--base", "1000")
	require.NoError(t, err)
	assert.Equal(t, "฿1,000\n≈ $28.99 (rate 2024-05-01)\n", out)

	out, err = run(t, "--workdir", dir, "price", "--secondary", "12.5", "--currency", "USD")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "$12.50", lines[0])
	assert.Equal(t, "≈ ฿446 (rate 2024-05-01)", lines[1])

	_, err = run(t, "--workdir", dir, "price")
	assert.Error(t, err)
	_, err = run(t, "--workdir", dir, "price", "--base", "-1")
	assert.True(t, errors.Is(err, domain.ErrInvalidPricingInput))
}

func TestExportCSV(t *testing.T) {
	dir := project(t)
	target := filepath.Join(dir, "export.csv")
	_, err := run(t, "--workdir", dir, "export", "--offline", "--format", "csv", "--out", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "P1,P1,Prompt,Portrait pack,"))

	_, err = run(t, "--workdir", dir, "export", "--format", "pdf")
	assert.Error(t, err)
}

func TestSmoke(t *testing.T) {
	dir := project(t)
	_, err := run(t, "--workdir", dir, "smoke")
	assert.Error(t, err, "auto.json has not been generated yet")

	_, err = run(t, "--workdir", dir, "build", "--offline")
	require.NoError(t, err)
	out, err := run(t, "--workdir", dir, "smoke")
	require.NoError(t, err, out)
	assert.Contains(t, out, "SMOKE")

	legacy := filepath.Join(dir, "web", "price.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(legacy), 0o755))
	require.NoError(t, os.WriteFile(legacy, []byte("export const p = buildDisplayPrice(item);\n"), 0o644))
	out, err = run(t, "--workdir", dir, "smoke")
	assert.Error(t, err)
	assert.Contains(t, out, "buildDisplayPrice")
}

func TestUpdateRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("to") != "USD" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"amount":1,"base":"THB","date":"2024-06-03","rates":{"USD":0.031}}`))
	}))
	defer srv.Close()

	dir := project(t)
	cfgFile := filepath.Join(dir, "storecatalog.yml")
	put(t, dir, "storecatalog.yml", "rates:\n  provider_url: "+srv.URL+"\n")

	out, err := run(t, "-c", cfgFile, "--workdir", dir, "update-rates")
	require.NoError(t, err, out)
	assert.Contains(t, out, "THB_USD=0.031")

	data, err := os.ReadFile(filepath.Join(dir, "public/catalog/rates.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"updatedAt": "2024-06-03T00:00:00Z"`)
	assert.Contains(t, string(data), `"fxPolicy"`)

	_, err = run(t, "-c", cfgFile, "--workdir", dir, "update-rates", "--to", "EUR")
	assert.Error(t, err)
}
