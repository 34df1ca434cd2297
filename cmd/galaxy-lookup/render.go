package main

import (
	"fmt"
	"io"

	"galaxy-lookup/internal/edsm"
	"galaxy-lookup/internal/geom"
	"galaxy-lookup/internal/locerr"
	"galaxy-lookup/internal/nearest"
	"galaxy-lookup/internal/resolve"

	"github.com/spf13/cobra"
)

func coords(c geom.Coordinate) string {
	return fmt.Sprintf("(%g, %g, %g)", c.X, c.Y, c.Z)
}

func printSystem(w io.Writer, s *edsm.GalaxySystem) {
	fmt.Fprintf(w, "%s %s\n", s.Name, coords(s.Coords))
}

func printLocation(w io.Writer, cmdr string, loc *edsm.Location) {
	fmt.Fprintf(w, "CMDR %s is in %s %s as of %s\n", cmdr, loc.System, coords(loc.Coordinates), loc.Time)
}

func printResolution(w io.Writer, r *resolve.Resolution) {
	switch r.Source {
	case resolve.SourceCommander:
		fmt.Fprintf(w, "CMDR %s is in %s %s as of %s\n", r.Commander, r.Name, coords(r.Coords), r.Time)
	case resolve.SourceFuzzy:
		fmt.Fprintf(w, "%s %s (closest match for %q)\n", r.Name, coords(r.Coords), r.Query)
	default:
		fmt.Fprintf(w, "%s %s\n", r.Name, coords(r.Coords))
	}
}

func printLeg(w io.Writer, leg resolve.Leg) {
	fmt.Fprintf(w, "%s -> %s: %s ly %s\n", leg.From.Name, leg.To.Name, geom.FormatDistance(leg.Distance), leg.Direction)
}

func printNearest(w io.Writer, what string, p *resolve.Resolution, r nearest.Result) {
	fmt.Fprintf(w, "%s: nearest %s is %s, %s ly (%s of it)\n", p.Name, what, r.Name, geom.FormatDistance(r.Distance), r.Direction)
}

func printDiversions(w io.Writer, p *resolve.Resolution, ds []nearest.DiversionResult) {
	fmt.Fprintf(w, "Diversions for %s:\n", p.Name)
	for i, d := range ds {
		fmt.Fprintf(w, "%d. %s (%s) %s ly %s, %s ls from star\n",
			i+1, d.Name, d.SystemName, geom.FormatDistance(d.Distance), d.Direction, geom.FormatDistance(d.DistanceFromStar))
	}
}

func printNearby(w io.Writer, n *edsm.NearbySystem) {
	fmt.Fprintf(w, "%s at %s ly\n", n.Name, geom.FormatDistance(n.Distance))
}

func errUnknown(what, name string) error {
	return locerr.NotFoundf(what, "%q is not known", name)
}

func errNothingNearby(c geom.Coordinate, radius float64) error {
	return locerr.NotFoundf("nearby", "no system within %g ly of %s", radius, coords(c))
}

// reportedError 已经输出过说明的错误，main 不再重复打印
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// report 按错误种类输出说明
func report(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), describe(err))
	return reportedError{err}
}

func describe(err error) string {
	switch locerr.KindOf(err) {
	case locerr.KindConnection:
		return "could not reach EDSM: " + err.Error()
	case locerr.KindReturn:
		return "EDSM returned an unexpected response: " + err.Error()
	case locerr.KindNotFound:
		return "not found: " + err.Error()
	case locerr.KindNoNearby:
		return "no landmark in range: " + err.Error()
	case locerr.KindAmbiguous:
		return "EDSM could not give a definite answer: " + err.Error()
	}
	return "error: " + err.Error()
}
