package main

import (
	"flag"
	"fmt"
	"log"

	"printforge.backend/pkg/crypto"
)

func buildSecrets() (string, string, error) {
	orders, err := crypto.GenerateWebhookSecret()
	if err != nil {
		return "", "", err
	}
	customers, err := crypto.GenerateWebhookSecret()
	if err != nil {
		return "", "", err
	}
	return orders, customers, nil
}

func main() {
	payload := flag.String("sign", "", "also print the signature of this payload under the new orders secret")
	flag.Parse()

	orders, customers, err := buildSecrets()
	if err != nil {
		log.Fatalf("failed to generate webhook secrets: %v", err)
	}

	fmt.Println("Generated webhook secrets")
	fmt.Printf("WEBHOOK_ORDERS_SECRET=%s\n", orders)
	fmt.Printf("WEBHOOK_CUSTOMERS_SECRET=%s\n", customers)

	if *payload != "" {
		fmt.Printf("X-Webhook-Signature: %s\n", crypto.SignPayload(orders, []byte(*payload)))
	}
}
