package transcription

import (
	"time"

	"github.com/streadway/amqp"

	"bitbucket.org/airenas/vidscribe/internal/pkg/cmdapp"
	"bitbucket.org/airenas/vidscribe/internal/pkg/config"
	"bitbucket.org/airenas/vidscribe/internal/pkg/generator"
	"bitbucket.org/airenas/vidscribe/internal/pkg/messages"
	"bitbucket.org/airenas/vidscribe/internal/pkg/mongo"
	"bitbucket.org/airenas/vidscribe/internal/pkg/rabbit"
	"bitbucket.org/airenas/vidscribe/internal/pkg/transcriber"
	"bitbucket.org/airenas/vidscribe/internal/pkg/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/heptiolabs/healthcheck"
)

var appName = "transcriptionService"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Video transcript generation service",
	Long:  `HTTP server to generate and serve video transcripts`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("providers.path", "/etc/vidscribe/providers")
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)
	var data ServiceData
	var err error
	fc := utils.NewSignalChannel()
	defer fc.Close()
	data.health = healthcheck.NewHandler()
	data.Subscribers = newSubscribers()

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.health.AddLivenessCheck("mongo", healthcheck.Async(mongoSessionProvider.Healthy, 10*time.Second))

	store, err := mongo.NewTranscriptStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init transcript store")
	data.Provider = store
	data.Saver = store

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init rabbit channel")
	defer msgChannelProvider.Close()
	data.health.AddLivenessCheck("rabbit", healthcheck.Async(msgChannelProvider.Healthy, 10*time.Second))

	err = initQueues(msgChannelProvider)
	cmdapp.CheckOrPanic(err, "Can't init queues")

	sender := rabbit.NewSender(msgChannelProvider, nil)
	db, err := newNotifyingDB(store, sender)
	cmdapp.CheckOrPanic(err, "Can't init DB wrapper")

	providerMap, err := config.NewFileProviderMap(cmdapp.Config.GetString("providers.path"))
	cmdapp.CheckOrPanic(err, "Can't init provider map")
	providerLoader, err := config.NewFileProviderLoader(cmdapp.Config.GetString("providers.path"))
	cmdapp.CheckOrPanic(err, "Can't init provider loader")
	registry, err := transcriber.NewRegistry(providerLoader)
	cmdapp.CheckOrPanic(err, "Can't init provider registry")
	selector, err := newProviderSelector(providerMap, registry)
	cmdapp.CheckOrPanic(err, "Can't init provider selector")

	gen, err := generator.NewGenerator(db, selector)
	cmdapp.CheckOrPanic(err, "Can't init generator")
	gen.SetChangedFunc(func() { data.Subscribers.broadcast(gen.Info()) })
	gen.Start()
	defer gen.Close()
	data.Queue = gen

	StartQueueListener(newTriggerChannelFunc(msgChannelProvider), gen, fc)

	data.Port = cmdapp.Config.GetInt("port")

	err = StartWebServer(&data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

func initQueues(prv *rabbit.ChannelProvider) error {
	cmdapp.Log.Info("Initializing queues")
	return prv.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		for _, queue := range []string{messages.TranscriptionNeeded, messages.TranscriptionFinished} {
			_, err := rabbit.Declare(ch, prv.QueueName(queue))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func newTriggerChannelFunc(prv *rabbit.ChannelProvider) triggerChannelFunc {
	return func() (<-chan amqp.Delivery, error) {
		ch, err := prv.Channel()
		if err != nil {
			return nil, errors.Wrap(err, "Can't open channel")
		}
		err = ch.Qos(1, 0, false)
		if err != nil {
			return nil, errors.Wrap(err, "Can't set Qos")
		}
		return rabbit.NewChannel(ch, prv.QueueName(messages.TranscriptionNeeded))
	}
}
