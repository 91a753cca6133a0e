package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/urfave/cli/v2"

	"github.com/letmevibethatforyou/sitesearch/contact"
)

type Handler struct {
	service *contact.Service
}

func NewHandler(service *contact.Service) *Handler {
	return &Handler{service: service}
}

// HandleRequest answers an API Gateway HTTP API request carrying a contact
// form submission.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if method := req.RequestContext.HTTP.Method; method != "" && method != http.MethodPost {
		return respond(http.StatusMethodNotAllowed, contact.Response{Error: "Method not allowed"}), nil
	}

	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			slog.WarnContext(ctx, "Failed to decode request body", "error", err)
			return respond(http.StatusBadRequest, contact.Response{Error: "Invalid form data"}), nil
		}
		raw = decoded
	}

	status, body := h.service.Respond(ctx, raw, contact.Meta{
		RemoteAddr: req.RequestContext.HTTP.SourceIP,
		UserAgent:  req.RequestContext.HTTP.UserAgent,
	})
	slog.InfoContext(ctx, "Processed contact submission", "status", status, "id", body.ID)
	return respond(status, body), nil
}

func respond(status int, body contact.Response) events.APIGatewayV2HTTPResponse {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"Internal server error"}`)
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}
}

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" || os.Getenv("AWS_REGION") != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	app := &cli.App{
		Name:  "contact",
		Usage: "Accept contact form submissions behind API Gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "table-name",
				Usage:   "DynamoDB table that stores submissions; empty logs them only",
				EnvVars: []string{"CONTACT_TABLE", "TABLE_NAME"},
			},
		},
		Action: runAction,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	ctx := c.Context
	tableName := c.String("table-name")

	slog.InfoContext(ctx, "Starting contact handler", "table", tableName)

	validator, err := contact.NewValidator()
	if err != nil {
		slog.ErrorContext(ctx, "Failed to compile contact schema", "error", err)
		return err
	}

	var sink contact.Sink = contact.LogSink{}
	if tableName != "" {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load AWS config", "error", err)
			return err
		}
		sink = contact.MultiSink{
			contact.NewDynamoSink(dynamodb.NewFromConfig(cfg), tableName),
			sink,
		}
	}

	handler := NewHandler(contact.NewService(validator, sink))

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		slog.InfoContext(ctx, "Running in Lambda environment")
		lambda.Start(handler.HandleRequest)
	} else {
		slog.InfoContext(ctx, "Function cannot run outside of AWS Lambda environment")
	}

	return nil
}
