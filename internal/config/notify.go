package config

type NotifyConfig struct {
	Provider string        `yaml:"provider"`
	AWS      *AWSSNSConfig `yaml:"aws"`
}

type AWSSNSConfig struct {
	Region        string `yaml:"region"`
	AlertTopicARN string `yaml:"alert_topic_arn"`
}

func loadNotifyConfig() *NotifyConfig {
	return &NotifyConfig{
		// "sns" publishes to the topic, "log" only writes the alert to the log
		Provider: getEnv("NOTIFY_PROVIDER", "log"),
		AWS: &AWSSNSConfig{
			Region:        getEnv("AWS_REGION", "ap-south-1"),
			AlertTopicARN: getEnv("SNS_ALERT_TOPIC_ARN", ""),
		},
	}
}
