package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"

	"github.com/ONSdigital/dp-catalog-api/model"
	"github.com/ONSdigital/dp-catalog-api/storage"
	"github.com/cucumber/godog"
	"github.com/rdumont/assistdog"
	"github.com/stretchr/testify/assert"
)

var linkEntry = regexp.MustCompile(`<([^>]*)>; rel="([^"]*)"`)

func (c *CatalogComponent) RegisterSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the dataset delete policy is "([^"]*)"$`, c.theDatasetDeletePolicyIs)
	ctx.Step(`^(\d+) datasets exist$`, c.datasetsExist)
	ctx.Step(`^the following datasets exist:$`, c.theFollowingDatasetsExist)
	ctx.Step(`^the following distributions exist:$`, c.theFollowingDistributionsExist)
	ctx.Step(`^the response should list (\d+) records$`, c.theResponseShouldListRecords)
	ctx.Step(`^the response should not have a Link header$`, c.theResponseShouldNotHaveALinkHeader)
	ctx.Step(`^the Link header should be:$`, c.theLinkHeaderShouldBe)
}

func (c *CatalogComponent) theDatasetDeletePolicyIs(policy string) error {
	c.cfg.DatasetDeletePolicy = policy
	return nil
}

func (c *CatalogComponent) create(kind *storage.Kind, docs []map[string]any) error {
	if err := c.start(); err != nil {
		return err
	}
	collection := model.New(c.deps.Records, c.cfg.DatasetDeletePolicy).Collection(kind)

	for _, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		if _, err := collection.Create(context.Background(), body); err != nil {
			return fmt.Errorf("failed to create %s %s: %w", kind.Name, body, err)
		}
	}
	return nil
}

func (c *CatalogComponent) datasetsExist(n int) error {
	docs := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		docs = append(docs, map[string]any{"title": fmt.Sprintf("dataset %d", i)})
	}
	return c.create(storage.Dataset, docs)
}

func (c *CatalogComponent) theFollowingDatasetsExist(table *godog.Table) error {
	rows, err := assistdog.NewDefault().ParseSlice(table)
	if err != nil {
		return err
	}
	return c.create(storage.Dataset, toDocs(rows))
}

func (c *CatalogComponent) theFollowingDistributionsExist(table *godog.Table) error {
	rows, err := assistdog.NewDefault().ParseSlice(table)
	if err != nil {
		return err
	}

	docs := toDocs(rows)
	for _, doc := range docs {
		if id, ok := doc[storage.Distribution.ParentKey].(string); ok {
			doc[storage.Distribution.ParentKey] = json.Number(id)
		}
	}
	return c.create(storage.Distribution, docs)
}

func toDocs(rows []map[string]string) []map[string]any {
	docs := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		doc := make(map[string]any, len(row))
		for k, v := range row {
			doc[k] = v
		}
		docs = append(docs, doc)
	}
	return docs
}

func (c *CatalogComponent) theResponseShouldListRecords(n int) error {
	body, err := io.ReadAll(c.ApiFeature.HTTPResponse.Body)
	if err != nil {
		return err
	}

	var items []map[string]any
	assert.NoError(c.ApiFeature, json.Unmarshal(body, &items), "response is not a JSON array: %s", body)
	assert.Len(c.ApiFeature, items, n)

	return c.ApiFeature.StepError()
}

func (c *CatalogComponent) theResponseShouldNotHaveALinkHeader() error {
	assert.Empty(c.ApiFeature, c.ApiFeature.HTTPResponse.Header.Values("Link"))
	return c.ApiFeature.StepError()
}

// theLinkHeaderShouldBe compares the rel, page and page_size of every
// Link entry, in order. Scheme and host depend on the test client.
func (c *CatalogComponent) theLinkHeaderShouldBe(table *godog.Table) error {
	expected, err := assistdog.NewDefault().ParseSlice(table)
	if err != nil {
		return err
	}

	var actual []map[string]string
	for _, m := range linkEntry.FindAllStringSubmatch(c.ApiFeature.HTTPResponse.Header.Get("Link"), -1) {
		u, err := url.Parse(m[1])
		if err != nil {
			return err
		}
		actual = append(actual, map[string]string{
			"rel":       m[2],
			"page":      u.Query().Get("page"),
			"page_size": u.Query().Get("page_size"),
		})
	}

	assert.Equal(c.ApiFeature, len(expected), len(actual), "Link entries: %v", actual)
	for i := range expected {
		if i >= len(actual) {
			break
		}
		for k, v := range expected[i] {
			assert.Equal(c.ApiFeature, v, actual[i][k], "Link entry %d %s", i, k)
		}
	}

	return c.ApiFeature.StepError()
}
