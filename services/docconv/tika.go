package docconvsvc

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// tikaService extracts text from uploaded documents via an Apache Tika server.
// Plain text payloads are passed through without a round trip.
type tikaService struct {
	url    string
	client *http.Client
}

var _ core.DocumentExtractor = (*tikaService)(nil)

func NewTikaService(conf *core.Config) *tikaService {
	return &tikaService{
		url:    conf.Docconv.TikaURL,
		client: &http.Client{Timeout: conf.Docconv.Timeout},
	}
}

func (svc *tikaService) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if strings.HasPrefix(mimeType, "text/") {
		return string(data), nil
	}
	if svc.url == "" {
		return "", core.ErrUnsupportedFormat
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, svc.url+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Accept", "text/plain")

	res, err := svc.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling tika")
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnsupportedMediaType:
		return "", core.ErrUnsupportedFormat
	case res.StatusCode != http.StatusOK:
		return "", errors.Wrapf(core.ErrExtractionFailed, "tika: status %d", res.StatusCode)
	}

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading tika response")
	}
	return strings.TrimSpace(string(body)), nil
}
