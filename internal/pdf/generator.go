package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Generator llama a un servicio de plantillas PDF (API estilo CraftMyPDF):
// POST {template_id, data, output_file} con header x-api-key; responde {file}.
type Generator struct {
	URL        string
	APIKey     string
	TemplateID string
	HTTP       *http.Client
}

type generateRequest struct {
	TemplateID string         `json:"template_id"`
	Data       map[string]any `json:"data"`
	OutputFile string         `json:"output_file"`
}

type generateResponse struct {
	File   string `json:"file"`
	Status string `json:"status"`
	Msg    string `json:"message"`
}

func (g *Generator) Enabled() bool {
	return g != nil && g.URL != "" && g.TemplateID != ""
}

// Create devuelve la URL del PDF generado.
func (g *Generator) Create(ctx context.Context, data map[string]any, outputFile string) (string, error) {
	body, err := json.Marshal(generateRequest{TemplateID: g.TemplateID, Data: data, OutputFile: outputFile})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.APIKey)
	client := g.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pdf generator: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("pdf generator: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("pdf generator: status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("pdf generator: decode: %w", err)
	}
	if out.File == "" {
		if out.Msg != "" {
			return "", fmt.Errorf("pdf generator: %s", out.Msg)
		}
		return "", errors.New("pdf generator: empty file url")
	}
	return out.File, nil
}
