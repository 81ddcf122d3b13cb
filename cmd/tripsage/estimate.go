package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tripsage/internal/app"
	"tripsage/internal/modules/dashboard"
	"tripsage/internal/modules/estimate"
	"tripsage/internal/modules/trip"
)

type estimateFlags struct {
	distance    float64
	distanceSet bool
	from        string
	to          string
	vehicle     string
	fuel        string
	style       string
	roads       string
	ac          bool
	json        bool
}

func newEstimateCmd() *cobra.Command {
	var f estimateFlags

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate cost and emissions for one trip",
		Example: `  # Fixed distance
  tripsage estimate --distance 150 --vehicle Hatchback --fuel Petrol

  # Route, electric car, JSON output
  tripsage estimate --from "Mumbai" --to "Pune" --vehicle "EV Car" --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.distanceSet = cmd.Flags().Changed("distance")
			req, err := f.request()
			if err != nil {
				return err
			}

			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			svc, closeFn, err := app.NewEstimator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Estimate(cmd.Context(), req)
			if err != nil {
				var verr *trip.ValidationError
				if errors.As(err, &verr) {
					return errors.New(verr.Message)
				}
				log.WithError(err).Debug("estimate failed")
				return errors.New(estimate.UserMessage(err))
			}

			d := dashboard.Build(req, res)
			if f.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"result": res, "dashboard": d})
			}
			return render(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().Float64Var(&f.distance, "distance", 0, "trip distance in km (distance mode)")
	cmd.Flags().StringVar(&f.from, "from", "", "origin (route mode)")
	cmd.Flags().StringVar(&f.to, "to", "", "destination (route mode)")
	cmd.Flags().StringVar(&f.vehicle, "vehicle", string(trip.VehicleHatchback), "vehicle type")
	cmd.Flags().StringVar(&f.fuel, "fuel", string(trip.FuelPetrol), "fuel type; ignored for electric vehicles")
	cmd.Flags().StringVar(&f.style, "style", string(trip.StyleNormal), "driving style: Eco, Normal or Aggressive")
	cmd.Flags().StringVar(&f.roads, "roads", string(trip.RoadMixed), "road condition: City, Highway or Mixed")
	cmd.Flags().BoolVar(&f.ac, "ac", true, "air conditioning on")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("distance", "from")
	cmd.MarkFlagsMutuallyExclusive("distance", "to")

	return cmd
}

// request maps flags onto a trip.Form; passing --distance, even as 0,
// selects distance mode.
func (f estimateFlags) request() (trip.TripRequest, error) {
	form := trip.NewForm()
	if f.distanceSet {
		form.SetMode(trip.ModeDistance)
		form.SetDistance(f.distance)
	} else {
		form.SetMode(trip.ModeRoute)
		form.SetOrigin(f.from)
		form.SetDestination(f.to)
	}

	v, err := trip.ParseVehicle(f.vehicle)
	if err != nil {
		return trip.TripRequest{}, err
	}
	form.SetVehicle(v)
	fuel, err := trip.ParseFuel(f.fuel)
	if err != nil {
		return trip.TripRequest{}, err
	}
	form.SetFuel(fuel)
	style, err := trip.ParseDrivingStyle(f.style)
	if err != nil {
		return trip.TripRequest{}, err
	}
	form.SetDrivingStyle(style)
	roads, err := trip.ParseRoadCondition(f.roads)
	if err != nil {
		return trip.TripRequest{}, err
	}
	form.SetRoadCondition(roads)
	form.SetAC(f.ac)

	return form.Submit()
}

func render(w io.Writer, d dashboard.Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range d.Cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Title, c.Value, c.Note)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "VEHICLE\tFUEL\tCOST (INR)\tCO2 (kg)\tEFFICIENCY\t")
	for _, r := range d.Table {
		mark := ""
		if r.Primary {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%.0f\t%.1f\t%s\t\n", r.Vehicle, mark, r.Fuel, r.Cost, r.CO2, r.Efficiency)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nCheapest: %s (saves ₹%.0f)\n", d.Cheapest.Label, d.Cheapest.CostSaving)
	fmt.Fprintf(w, "Lowest CO2: %s (saves %.1f kg)\n", d.Greenest.Label, d.Greenest.CO2Saving)
	fmt.Fprintln(w, "\nTips:")
	for _, tip := range d.Tips {
		fmt.Fprintf(w, "  - %s\n", tip)
	}
	fmt.Fprintf(w, "\nAssumptions: %s\n", strings.TrimSpace(d.Assumptions.Description))
	if d.MapURL != "" {
		fmt.Fprintf(w, "Route map: %s\n", d.MapURL)
	}
	return nil
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List accepted vehicle, fuel, style and road values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(trip.Options())
		},
	}
}
