package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/livelink"
	"github.com/xaionaro-go/livelink/logger"
	"github.com/xaionaro-go/livelink/remap"
	"github.com/xaionaro-go/livelink/role"
	"github.com/xaionaro-go/livelink/ts"
	"github.com/xaionaro-go/livelink/types"
	"github.com/xaionaro-go/observability"
	"gonum.org/v1/gonum/num/quat"
)

const (
	faceSubject   = types.SubjectName("face")
	headSubject   = types.SubjectName("head")
	mergedSubject = types.SubjectName("merged")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s [options]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	loggerLevel := logger.LevelWarning
	pflag.Var(&loggerLevel, "log-level", "Log level")
	netPprofAddr := pflag.String("net-pprof-listen-addr", "", "an address to listen for incoming net/pprof connections")
	duration := pflag.Duration("duration", 10*time.Second, "how long to run the simulation; 0 means until interrupted")
	tickRateFlag := pflag.String("tick-rate", "60", "the rate of the consumer's ticks, e.g. 60 or 30000/1001")
	faceSourceRateFlag := pflag.String("face-source-rate", "120", "the rate the face source produces frames at")
	timecodeRateFlag := pflag.String("timecode-rate", "30", "the rate of the timecode")
	headRateFlag := pflag.String("head-rate", "60", "the rate the head tracker produces frames at")
	maxFrames := pflag.Int("max-frames", 10, "the maximal amount of frames buffered per subject")
	overflowPolicyFlag := pflag.String("overflow-policy", livelink.FrameOverflowPolicyDropNewest.String(), "which frame to drop on a queue overflow: drop_newest or drop_oldest")
	engineTimeOffset := pflag.Duration("head-offset", 0, "the engine time offset of the head tracker")
	pflag.Parse()
	if len(pflag.Args()) != 0 {
		pflag.Usage()
		os.Exit(1)
	}

	l := logrus.Default().WithLevel(loggerLevel)
	ctx := logger.CtxWithLogger(context.Background(), l)
	ctx, cancelFn := signal.NotifyContext(ctx, os.Interrupt)
	defer cancelFn()
	logger.SetDefault(func() logger.Logger {
		return l
	})
	defer belt.Flush(ctx)

	if *netPprofAddr != "" {
		observability.Go(ctx, func(ctx context.Context) { l.Error(http.ListenAndServe(*netPprofAddr, nil)) })
	}

	tickRate := mustRational(l, "tick-rate", *tickRateFlag)
	faceSourceRate := mustRational(l, "face-source-rate", *faceSourceRateFlag)
	timecodeRate := mustRational(l, "timecode-rate", *timecodeRateFlag)
	headRate := mustRational(l, "head-rate", *headRateFlag)
	overflowPolicy, err := livelink.FrameOverflowPolicyFromString(*overflowPolicyFlag)
	if err != nil {
		l.Fatal(err)
	}

	cfg := livelink.DefaultConfig()
	cfg.FrameOverflowPolicy = overflowPolicy
	cfg.DefaultSubjectSettings.Buffer.MaxNumberOfFrames = *maxFrames
	client, err := livelink.New(ctx, cfg)
	if err != nil {
		l.Fatal(err)
	}

	engine := ts.NewEngineClock(nil)
	clock := ts.SyncClock{
		Engine:   engine,
		Timecode: ts.NewTimecodeClock(engine, timecodeRate, types.FrameTime{}),
	}

	faceKey := types.SubjectKey{Source: types.NewSourceID(), Name: faceSubject}
	headKey := types.SubjectKey{Source: types.NewSourceID(), Name: headSubject}
	faceStatic := &types.StaticData{
		Role:          types.RoleBasic,
		PropertyNames: []string{"blink", "smile", "jaw_open"},
	}
	headStatic := &types.StaticData{
		Role:          types.RoleTransform,
		PropertyNames: []string{"confidence"},
	}
	if err := client.PushStaticData(ctx, faceKey, types.RoleBasic, faceStatic); err != nil {
		l.Fatal(err)
	}
	if err := client.PushStaticData(ctx, headKey, types.RoleTransform, headStatic); err != nil {
		l.Fatal(err)
	}
	client.TickNow(ctx, clock)

	faceSettings := cfg.DefaultSubjectSettings
	faceSettings.Mode = types.SourceModeTimecode
	faceSettings.Remapper = remap.Prefix("face_")
	faceSettings.Buffer.GenerateSubFrame = true
	faceSettings.Buffer.SourceTimecodeFrameRate = faceSourceRate
	faceSettings.Buffer.TimecodeFrameRate = timecodeRate
	faceSettings.Buffer.ValidTimecodeFrames = timecodeRate.Float64()
	if err := client.SetSubjectSettings(ctx, faceKey, faceSettings); err != nil {
		l.Fatal(err)
	}

	headSettings := cfg.DefaultSubjectSettings
	headSettings.Mode = types.SourceModeEngineTime
	headSettings.Buffer.EngineTimeOffset = *engineTimeOffset
	headSettings.PreProcessors = []role.PreProcessor{role.AxisSwitch{FlipZ: true}}
	if err := client.SetSubjectSettings(ctx, headKey, headSettings); err != nil {
		l.Fatal(err)
	}

	if err := client.AddVirtualSubject(ctx, types.SubjectKey{Name: mergedSubject}, livelink.MergedProperties{
		Subjects: []types.SubjectName{faceSubject, headSubject},
	}); err != nil {
		l.Fatal(err)
	}

	observability.Go(ctx, func(ctx context.Context) {
		produce(ctx, client.CloseChan(), faceSourceRate, func(idx int) {
			wt := engine.WorldTime(ctx)
			sceneTime := clock.Timecode.SceneTimeAt(ctx, wt)
			frame := types.FrameData{
				WorldTime: types.NewWorldTime(wt),
				PropertyValues: []float32{
					float32(idx%100) / 100,
					float32(0.5 + 0.5*math.Sin(wt)),
					float32(0.5 + 0.5*math.Cos(wt)),
				},
			}
			// the source stamps whole timecode frames only
			frame.SetSceneTime(types.QualifiedFrameTime{
				Time: types.FrameTime{Frame: sceneTime.Time.Frame},
				Rate: sceneTime.Rate,
			})
			if err := client.PushFrameData(ctx, faceKey, frame); err != nil {
				logger.Debugf(ctx, "unable to push a face frame: %v", err)
			}
		})
	})
	observability.Go(ctx, func(ctx context.Context) {
		produce(ctx, client.CloseChan(), headRate, func(idx int) {
			wt := engine.WorldTime(ctx)
			transform := types.IdentityTransform()
			transform.Translation = [3]float64{math.Sin(wt), 1.7, math.Cos(wt)}
			transform.Rotation = quat.Number{Real: math.Cos(wt / 2), Jmag: math.Sin(wt / 2)}
			frame := types.FrameData{
				WorldTime:      types.NewWorldTime(wt),
				PropertyValues: []float32{1},
				Transforms:     []types.Transform{transform},
			}
			if err := client.PushFrameData(ctx, headKey, frame); err != nil {
				logger.Debugf(ctx, "unable to push a head frame: %v", err)
			}
		})
	})

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}
	tickTicker := time.NewTicker(periodOf(tickRate))
	defer tickTicker.Stop()
	reportTicker := time.NewTicker(time.Second)
	defer reportTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			printSummary(ctx, client)
			return
		case <-deadline:
			printSummary(ctx, client)
			return
		case <-tickTicker.C:
			now := client.TickNow(ctx, clock)
			if curves, err := client.EvaluateCurves(ctx, mergedSubject); err == nil {
				logger.Tracef(ctx, "%s at %.3f: %v", mergedSubject, now.WorldTime, curves)
			}
		case <-reportTicker.C:
			statsJSON, err := json.Marshal(client.GetStats(ctx))
			if err != nil {
				l.Fatal(err)
			}
			fmt.Printf("stats:%s\n", statsJSON)
			for _, info := range client.Subjects(ctx) {
				fmt.Printf("  %-8s %-9s enabled:%-5t virtual:%-5t %s\n", info.Key.Name, info.Role, info.Enabled, info.Virtual, info.State)
			}
		}
	}
}

func mustRational(l logger.Logger, flagName, value string) types.Rational {
	r, err := types.RationalFromString(value)
	if err != nil {
		l.Fatalf("invalid --%s: %v", flagName, err)
	}
	if !r.IsValid() {
		l.Fatalf("invalid --%s: %s", flagName, r)
	}
	return *r
}

func periodOf(rate types.Rational) time.Duration {
	return time.Duration(float64(time.Second) / rate.Float64())
}

func produce(
	ctx context.Context,
	done <-chan struct{},
	rate types.Rational,
	fn func(idx int),
) {
	t := time.NewTicker(periodOf(rate))
	defer t.Stop()
	for idx := 0; ; idx++ {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-t.C:
			fn(idx)
		}
	}
}

func printSummary(ctx context.Context, client *livelink.Client) {
	stats := client.GetStats(ctx)
	fmt.Printf(
		"ticks: %s; static data pushed: %s; frames pushed: %s, dropped: %s, rejected: %s\n",
		humanize.Comma(int64(stats.Ticks)),
		humanize.Comma(int64(stats.StaticDataPushed)),
		humanize.Comma(int64(stats.FrameDataPushed)),
		humanize.Comma(int64(stats.FrameDataDropped)),
		humanize.Comma(int64(stats.FrameDataRejected)),
	)
	for name, subjectStats := range stats.Subjects {
		fmt.Printf(
			"  %s: added %s, evicted %s, duplicates %s, snapshots %s, measured rate %s\n",
			name,
			humanize.Comma(int64(subjectStats.FramesAdded)),
			humanize.Comma(int64(subjectStats.FramesEvicted)),
			humanize.Comma(int64(subjectStats.Duplicates)),
			humanize.Comma(int64(subjectStats.Snapshots)),
			humanize.SIWithDigits(subjectStats.EstimatedFrameRate, 2, "Hz"),
		)
	}
	if _, err := client.EvaluateLatest(ctx, faceSubject); err != nil {
		logger.Warnf(ctx, "the face subject has no valid data: %v", err)
	}
	if err := client.Close(ctx); err != nil {
		logger.Errorf(ctx, "unable to close the client: %v", err)
	}
}
