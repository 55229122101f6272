//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sugawarayuuta/sonnet"
	"github.com/tidwall/gjson"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type optimizeResult struct {
	SackOutput
	ItemList []Item `json:"itemList"`
}

// handler solves the catalog posted as {"items": [...], "config": {...}}.
func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}
	if !gjson.Valid(body) {
		return errResp(400, "invalid JSON")
	}

	req := gjson.Parse(body)
	if !req.Get("items").Exists() {
		return errResp(400, "missing items field")
	}
	items, err := readItems(req.Get("items"))
	if err != nil {
		return errResp(400, err.Error())
	}

	cfg := DefaultConfig()
	if err := readConfigOverrides(&cfg, req.Get("config")); err != nil {
		return errResp(400, err.Error())
	}

	catalog := NewCatalog(items)
	res, err := Run(ctx, catalog, cfg, nil)
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return errResp(400, err.Error())
	}
	if err != nil && res.Best == nil {
		return errResp(500, err.Error())
	}

	resp := optimizeResult{SackOutput: newSackOutput(res, max(cfg.Workers, 1))}
	for _, idx := range res.Best.Items {
		resp.ItemList = append(resp.ItemList, catalog.Items[idx])
	}
	respJSON, err := sonnet.Marshal(resp)
	if err != nil {
		return errResp(500, err.Error())
	}
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, err := sonnet.Marshal(map[string]string{"error": msg})
	if err != nil {
		return events.LambdaFunctionURLResponse{}, err
	}
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
