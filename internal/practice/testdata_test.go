package practice

import "iot-practice-service/internal/domain"

func sampleBank() []domain.Assignment {
	return []domain.Assignment{
		{
			Number: 1,
			Topic:  "Sensors",
			Questions: []domain.Question{
				{Prompt: "Which converts light to resistance?", Options: []string{"LDR", "LED", "Relay"}, Answer: "LDR"},
				{Prompt: "DHT11 measures?", Options: []string{"Humidity", "Pressure"}, Answer: "Humidity"},
			},
		},
		{
			Number: 2,
			Topic:  "Protocols",
			Questions: []domain.Question{
				{Prompt: "MQTT runs over?", Options: []string{"TCP", "UDP"}, Answer: "TCP"},
				{Prompt: "CoAP default port?", Options: []string{"5683", "1883"}, Answer: "5683"},
				{Prompt: "Which is a mesh protocol?", Options: []string{"Zigbee", "HTTP"}, Answer: "Zigbee"},
			},
		},
	}
}

// zeroRand always picks index 0.
type zeroRand struct{}

func (zeroRand) Intn(int) int { return 0 }

// identityRand never moves an element.
type identityRand struct{}

func (identityRand) Intn(n int) int { return n - 1 }
