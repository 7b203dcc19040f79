package main

import (
	"flag"
	"log"
	"os"

	"github.com/propworks/proplink/pkg/hub"
)

var (
	brokerURL = "mqtt://localhost:1883/proplink/"
)

func init() {
	if val := os.Getenv("PROPLINK_MQTT_URL"); val != "" {
		brokerURL = val
	}
	flag.StringVar(&brokerURL, "mqtt", brokerURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := hub.NewQueueFromURL(brokerURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", func(topic string, payload []byte) {
		log.Printf("%s: %s", topic, string(payload))
	})
	<-(chan struct{})(nil)
}
