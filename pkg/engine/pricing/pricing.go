// Package pricing calibrates the storage cost model against live AWS
// prices. HDFS itself has no price list, so the advisor prices tiers
// off S3: Standard for hot data, Glacier Instant Retrieval for cold,
// Glacier Deep Archive for archive.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"

	"github.com/DrSkyle/hdfslash/pkg/cloud"
	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
)

// Storage tiers the cost model prices.
const (
	TierStandard = "standard"
	TierCold     = "cold"
	TierArchive  = "archive"
)

// PriceRecord is one cached rate.
type PriceRecord struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// productsAPI is the slice of the AWS Pricing client the rates client
// uses. Tests substitute a fixture implementation.
type productsAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// Client wraps the AWS Pricing API behind a persistent rate cache.
type Client struct {
	logger    *slog.Logger
	svc       productsAPI
	cache     map[string]PriceRecord
	mu        sync.RWMutex
	cachePath string
	ttl       time.Duration
	region    string
}

// NewClient initializes the pricing client. Rates are queried for the
// given region and cached under cacheDir.
func NewClient(ctx context.Context, logger *slog.Logger, cacheDir, region string) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	os.MkdirAll(cacheDir, 0755)

	if region == "" {
		region = "us-east-1"
	}

	// The Pricing API is only served from us-east-1 regardless of
	// which region's rates are queried.
	sess, err := cloud.NewClient(ctx, "us-east-1", "", false)
	if err != nil {
		return nil, err
	}

	c := &Client{
		logger:    logger,
		svc:       pricing.NewFromConfig(sess.Config),
		cache:     make(map[string]PriceRecord),
		cachePath: filepath.Join(cacheDir, "pricing.json"),
		ttl:       15 * 24 * time.Hour, // 15 Days
		region:    region,
	}

	c.loadCache()
	return c, nil
}

func (c *Client) loadCache() {
	data, err := os.ReadFile(c.cachePath)
	if err == nil {
		json.Unmarshal(data, &c.cache)
	}
}

func (c *Client) saveCache() {
	data, err := json.MarshalIndent(c.cache, "", "  ")
	if err == nil {
		os.WriteFile(c.cachePath, data, 0644)
	}
}

// GetStorageRate returns the monthly $/GB rate for a storage tier.
func (c *Client) GetStorageRate(ctx context.Context, tier string) (float64, error) {
	cacheKey := fmt.Sprintf("s3-%s-%s", c.region, tier)

	c.mu.RLock()
	record, ok := c.cache[cacheKey]
	c.mu.RUnlock()

	valid := ok && time.Since(time.Unix(record.Timestamp, 0)) < c.ttl
	if valid {
		return record.Price, nil
	}

	price, err := c.fetchStorageRate(ctx, tier)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.cache[cacheKey] = PriceRecord{Price: price, Timestamp: time.Now().Unix()}
	c.saveCache() // Persist cache.
	c.mu.Unlock()

	return price, nil
}

func (c *Client) fetchStorageRate(ctx context.Context, tier string) (float64, error) {
	var volTypeVal string
	switch tier {
	case TierStandard:
		volTypeVal = "Standard"
	case TierCold:
		volTypeVal = "Glacier Instant Retrieval"
	case TierArchive:
		volTypeVal = "Glacier Deep Archive"
	default:
		return 0, fmt.Errorf("unknown storage tier %q", tier)
	}

	filters := []types.Filter{
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("productFamily"),
			Value: aws.String("Storage"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("serviceCode"),
			Value: aws.String("AmazonS3"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("regionCode"),
			Value: aws.String(c.region),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("volumeType"),
			Value: aws.String(volTypeVal),
		},
	}

	input := &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonS3"),
		Filters:     filters,
		MaxResults:  aws.Int32(1), // Retrieve single match
	}

	out, err := c.svc.GetProducts(ctx, input)
	if err != nil {
		return 0, err
	}

	if len(out.PriceList) == 0 {
		return 0, fmt.Errorf("no pricing found for %s storage in %s", tier, c.region)
	}

	return parsePriceFromJSON(out.PriceList[0])
}

// Calibrate replaces the standard, cold, and archive rates with live
// S3 prices for the configured region. On any error the input rates
// come back unchanged, so callers can always use the result.
func (c *Client) Calibrate(ctx context.Context, base costs.StorageCosts) (costs.StorageCosts, error) {
	standard, err := c.GetStorageRate(ctx, TierStandard)
	if err != nil {
		return base, err
	}
	cold, err := c.GetStorageRate(ctx, TierCold)
	if err != nil {
		return base, err
	}
	archive, err := c.GetStorageRate(ctx, TierArchive)
	if err != nil {
		return base, err
	}

	out := base
	out.StandardPerGB = standard
	out.ColdPerGB = cold
	out.ArchivePerGB = archive

	c.logger.Info("Calibrated storage rates",
		"region", c.region,
		"standard", standard,
		"cold", cold,
		"archive", archive,
		"source", "aws_pricing_api")
	return out, nil
}

func parsePriceFromJSON(jsonStr string) (float64, error) {
	// Pricing JSON structures.
	type PriceDimension struct {
		PricePerUnit map[string]string `json:"pricePerUnit"`
	}
	type Term struct {
		PriceDimensions map[string]PriceDimension `json:"priceDimensions"`
	}
	type Product struct {
		Terms map[string]map[string]Term `json:"terms"` // OnDemand -> SKU -> Term
	}

	var p Product
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		return 0, err
	}

	// Tiered storage SKUs carry one price dimension per usage tier and
	// the first tier is the highest rate. Take the max so estimates
	// stay conservative.
	best := -1.0
	if onDemand, ok := p.Terms["OnDemand"]; ok {
		for _, term := range onDemand {
			for _, dim := range term.PriceDimensions {
				if valStr, ok := dim.PricePerUnit["USD"]; ok {
					if val, err := strconv.ParseFloat(valStr, 64); err == nil && val > best {
						best = val
					}
				}
			}
		}
	}

	if best < 0 {
		return 0, fmt.Errorf("price not found in JSON")
	}
	return best, nil
}
