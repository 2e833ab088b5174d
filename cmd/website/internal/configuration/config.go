package configuration

import (
	"strconv"

	"github.com/adampresley/configinator"
	"github.com/danielcfuentes/album-studio/pkg/services"
)

const (
	BackendSQLite = "sqlite"
	BackendLocal  = "local"
	BackendS3     = "s3"
)

type Config struct {
	AdminPassword           string `flag:"adminpassword" env:"ADMIN_PASSWORD" default:"" description:"Plain text admin password. Hashed with bcrypt at startup"`
	AdminPasswordHash       string `flag:"adminpasswordhash" env:"ADMIN_PASSWORD_HASH" default:"" description:"bcrypt hash of the admin password. Takes precedence over ADMIN_PASSWORD"`
	AlbumUploadFolder       string `flag:"auf" env:"ALBUM_UPLOAD_FOLDER" default:"albums" description:"Storage folder for album cover uploads"`
	AwsEndpointUrl          string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion               string `flag:"awsregion" env:"AWS_REGION" default:"us-east-1" description:"AWS region"`
	AwsAccessKeyId          string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey      string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket               string `flag:"awsbucket" env:"AWS_BUCKET" default:"album-images" description:"S3 bucket"`
	ContactRatePerMinute    int    `flag:"crpm" env:"CONTACT_RATE_PER_MINUTE" default:"3" description:"Contact form submissions allowed per minute, per IP"`
	ContactRateBurst        int    `flag:"crb" env:"CONTACT_RATE_BURST" default:"3" description:"Contact form burst size, per IP"`
	CookieSecret            string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	CounterRatePerMinute    int    `flag:"cntrpm" env:"COUNTER_RATE_PER_MINUTE" default:"120" description:"View and click counter requests allowed per minute, per IP"`
	CounterRateBurst        int    `flag:"cntrb" env:"COUNTER_RATE_BURST" default:"10" description:"View and click counter burst size, per IP"`
	DSN                     string `flag:"dsn" env:"DSN" default:"file:./data/album-studio.db" description:"Data source name"`
	EmailApiKey             string `flag:"emailapikey" env:"EMAIL_API_KEY" default:"" description:"API key for sending emails. Contact notifications are off when empty"`
	EmailFromAddress        string `flag:"emailfrom" env:"EMAIL_FROM_ADDRESS" default:"noreply@example.com" description:"Sender address for notification emails"`
	EmailFromName           string `flag:"emailfromname" env:"EMAIL_FROM_NAME" default:"Album Studio" description:"Sender name for notification emails"`
	EmailToAddress          string `flag:"emailto" env:"EMAIL_TO_ADDRESS" default:"" description:"Where contact notifications go. Contact notifications are off when empty"`
	Host                    string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	JanitorIntervalHours    int    `flag:"jih" env:"JANITOR_INTERVAL_HOURS" default:"24" description:"Hours between unused upload cleanups"`
	JanitorRetentionDays    int    `flag:"jrd" env:"JANITOR_RETENTION_DAYS" default:"7" description:"Unreferenced uploads younger than this are kept"`
	LocalDataFile           string `flag:"ldf" env:"LOCAL_DATA_FILE" default:"./data/album-studio.json" description:"JSON data file used by the local persistence backend"`
	LocalSeed               string `flag:"localseed" env:"LOCAL_SEED" default:"true" description:"Seed demo albums when creating a new local data file"`
	LocalStorageDir         string `flag:"lsd" env:"LOCAL_STORAGE_DIR" default:"./data/uploads" description:"Directory uploads are written to by the local storage backend"`
	LogLevel                string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxRepairWorkers        int    `flag:"mrw" env:"MAX_REPAIR_WORKERS" default:"4" description:"Maximum number of concurrent image link repair workers"`
	Persistence             string `flag:"persistence" env:"PERSISTENCE" default:"sqlite" description:"Persistence backend. Valid values are 'sqlite' and 'local'"`
	PublicBaseURL           string `flag:"publicbaseurl" env:"PUBLIC_BASE_URL" default:"http://localhost:8081/uploads" description:"Base URL uploaded objects are served from"`
	SettingsUploadFolder    string `flag:"suf" env:"SETTINGS_UPLOAD_FOLDER" default:"settings" description:"Storage folder for logo and about image uploads"`
	Storage                 string `flag:"storage" env:"STORAGE" default:"local" description:"Object storage backend. Valid values are 's3' and 'local'"`
	TrustedProxies          string `flag:"trustedproxies" env:"TRUSTED_PROXIES" default:"" description:"Comma separated IPs or CIDR ranges of reverse proxies whose X-Real-IP and X-Forwarded-For headers are believed"`
	UploadMaxBytes          int    `flag:"umb" env:"UPLOAD_MAX_BYTES" default:"20971520" description:"Largest accepted upload in bytes"`
	UploadMaxDimension      int    `flag:"umd" env:"UPLOAD_MAX_DIMENSION" default:"1920" description:"Longest side of a recompressed image, in pixels"`
	UploadQuality           int    `flag:"uq" env:"UPLOAD_QUALITY" default:"88" description:"JPEG quality used when recompressing, between 1 and 100"`
	UploadResizeThreshold   int    `flag:"urt" env:"UPLOAD_RESIZE_THRESHOLD" default:"2097152" description:"Images larger than this many bytes are downscaled and recompressed"`
	UploadStorageLimitBytes int    `flag:"uslb" env:"UPLOAD_STORAGE_LIMIT_BYTES" default:"20971520" description:"Largest object the local storage backend accepts"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}

func (c Config) UploadOptions() services.UploadOptions {
	return services.UploadOptions{
		MaxBytes:             int64(c.UploadMaxBytes),
		ResizeThresholdBytes: int64(c.UploadResizeThreshold),
		MaxDimension:         c.UploadMaxDimension,
		Quality:              float64(c.UploadQuality) / 100,
	}
}

func (c Config) SeedLocalData() bool {
	seed, err := strconv.ParseBool(c.LocalSeed)
	return err == nil && seed
}

func (c Config) UploadFolders() []string {
	return []string{c.AlbumUploadFolder, c.SettingsUploadFolder}
}
