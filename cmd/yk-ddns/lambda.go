package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/apigw"
)

func newLambdaCmd(envFile *string) *cobra.Command {
	var function string

	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function behind API Gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(context.Background(), *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			h := apigw.New(ctrl.Log.WithName("apigw"), a.processor)
			switch function {
			case "update":
				lambda.Start(h.Update)
			case "version":
				lambda.Start(h.Version)
			default:
				return fmt.Errorf("unknown function %q (want update or version)", function)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&function, "function", "update", "handler to serve: update or version")
	return cmd
}
