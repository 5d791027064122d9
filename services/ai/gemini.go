package aisvc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// geminiService talks to the Gemini generateContent REST API.
type geminiService struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

var _ core.TextGenerator = (*geminiService)(nil)

func NewGeminiService(conf *core.Config) *geminiService {
	return &geminiService{
		key:     conf.AI.APIKey,
		model:   conf.AI.Model,
		baseURL: conf.AI.BaseURL,
		client:  &http.Client{Timeout: conf.AI.Timeout},
	}
}

type (
	genRequest struct {
		Contents         []genContent `json:"contents"`
		GenerationConfig *genConfig   `json:"generationConfig,omitempty"`
	}
	genContent struct {
		Parts []genPart `json:"parts"`
	}
	genPart struct {
		Text       string         `json:"text,omitempty"`
		InlineData *genInlineData `json:"inlineData,omitempty"`
	}
	genInlineData struct {
		MimeType string `json:"mimeType"`
		Data     string `json:"data"` // base64
	}
	genConfig struct {
		ResponseMimeType string      `json:"responseMimeType,omitempty"`
		ResponseSchema   core.Schema `json:"responseSchema,omitempty"`
	}

	genResponse struct {
		Candidates []struct {
			Content genContent `json:"content"`
		} `json:"candidates"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
)

func (svc *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	req := genRequest{
		Contents: []genContent{{Parts: []genPart{{Text: prompt}}}},
	}
	return svc.generate(ctx, req)
}

func (svc *geminiService) GenerateJSON(ctx context.Context, prompt string, schema core.Schema, out interface{}) error {
	req := genRequest{
		Contents: []genContent{{Parts: []genPart{{Text: prompt}}}},
		GenerationConfig: &genConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	text, err := svc.generate(ctx, req)
	if err != nil {
		return err
	}
	if err = json.Unmarshal([]byte(text), out); err != nil {
		return errors.Wrap(err, "decoding generated JSON")
	}
	return nil
}

func (svc *geminiService) DescribeImage(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	req := genRequest{
		Contents: []genContent{{Parts: []genPart{
			{InlineData: &genInlineData{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(data),
			}},
			{Text: prompt},
		}}},
	}
	return svc.generate(ctx, req)
}

func (svc *geminiService) generate(ctx context.Context, reqBody genRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "encoding request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", svc.baseURL, svc.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", svc.key)

	res, err := svc.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling generateContent")
	}
	defer res.Body.Close()

	resBody, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading response")
	}

	var genRes genResponse
	if err = json.Unmarshal(resBody, &genRes); err != nil {
		return "", errors.Wrapf(err, "decoding response (status %d)", res.StatusCode)
	}
	if res.StatusCode != http.StatusOK {
		if genRes.Error != nil {
			return "", errors.Errorf("generateContent: %d %s", genRes.Error.Code, genRes.Error.Message)
		}
		return "", errors.Errorf("generateContent: status %d", res.StatusCode)
	}
	if len(genRes.Candidates) == 0 || len(genRes.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("generateContent: empty response")
	}

	var text string
	for _, part := range genRes.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}
