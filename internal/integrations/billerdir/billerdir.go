package billerdir

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/config"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// Client fetches the upstream BPAY biller directory, an XML feed of biller
// name/code records the admin console imports into the local registry.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new biller directory client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.BillerDirURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch retrieves the raw directory feed
func (c *Client) fetch() ([]byte, error) {
	req, err := http.NewRequest("GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("Biller directory XML response: %s", string(body))
	return body, nil
}

// parse extracts biller records from the directory XML
func (c *Client) parse(rawBody []byte) ([]*models.Biller, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	elements := doc.FindElements("//BillerDirectory/Biller")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no biller records found in XML")
	}

	var billers []*models.Biller
	for _, el := range elements {
		name := el.FindElement("./Name")
		code := el.FindElement("./Code")
		if name == nil || code == nil {
			continue
		}
		billers = append(billers, &models.Biller{
			Name: name.Text(),
			Code: code.Text(),
		})
	}
	if len(billers) == 0 {
		return nil, fmt.Errorf("no usable biller records found in XML")
	}
	return billers, nil
}

// GetBillers retrieves the current biller directory
func (c *Client) GetBillers() ([]*models.Biller, error) {
	body, err := c.fetch()
	if err != nil {
		return nil, err
	}

	billers, err := c.parse(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d billers from directory", len(billers))
	return billers, nil
}
