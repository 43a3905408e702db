package listener

import "time"

const defaultPollInterval = 5 * time.Second
