// Package mqtt exports Smart City activity to an MQTT broker.
//
// The export is optional and disabled by default. When enabled:
//   - ReadingSink publishes every sweep result on
//     smartcity/sensor/{id}/reading
//   - StatePublisher mirrors unit transitions as retained messages on
//     smartcity/unit/{name}/state
//   - Public alerts on smartcity/alert/+ can be subscribed to and fed to
//     citizen apps
//   - Last Will and Testament marks the process offline on
//     smartcity/system/status if it dies without closing
//
// Sinks and observers depend on the Publisher interface, so they can be
// tested without a broker. Broker tests carry the "integration" build tag.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	registry.AddSink(mqtt.NewReadingSink(client, cfg.Site.ID, client.DefaultQoS()))
package mqtt
