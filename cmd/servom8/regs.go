package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/songsen/servoM8/internal/experiment"
	"github.com/songsen/servoM8/internal/registers"
)

func regsCommand(registry *experiment.Registry) *cobra.Command {
	regsCmd := &cobra.Command{
		Use:   "regs",
		Short: "read or write the register file of a servo on I2C",
	}
	regsCmd.PersistentFlags().StringVar(&i2cBus, "bus", "", "I2C bus name (default first bus)")
	regsCmd.PersistentFlags().Uint16Var(&i2cAddr, "addr", registers.DefaultTWIAddress, "servo I2C address")

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "print the servo's registers",
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := registers.OpenI2C(i2cBus, i2cAddr)
			if err != nil {
				return err
			}
			defer dev.Close()

			t := registers.NewTable()
			if err := registers.Pull(dev, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "device: %s\n\n", dev)
			return printRegisters(cmd.OutOrStdout(), t)
		},
	}

	pushCmd := &cobra.Command{
		Use:   "push [controller]",
		Short: "write a controller's configuration registers to the servo",
		Long: `Sends the write-enable command, then writes the gain, seek bound,
estimator, deadband and reverse registers. Writes stay enabled; pass
--save to store the registers in the servo's EEPROM.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, args)
			if err != nil {
				return err
			}
			exp, err := experiment.New(registry, cfg)
			if err != nil {
				return err
			}

			dev, err := registers.OpenI2C(i2cBus, i2cAddr)
			if err != nil {
				return err
			}
			defer dev.Close()

			if err := registers.Push(exp.Registers(), dev); err != nil {
				return err
			}
			if saveRegs {
				if err := dev.Send(registers.CmdRegistersSave); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s configuration to %s\n", cfg.Controller, cfg.Profile, dev)
			return nil
		},
	}
	addRunFlags(pushCmd)
	pushCmd.Flags().BoolVar(&saveRegs, "save", false, "save the registers to EEPROM after writing")

	regsCmd.AddCommand(dumpCmd, pushCmd)
	return regsCmd
}

// printRegisters lists every named word and byte. Words are shown both
// unsigned and as two's complement.
func printRegisters(out io.Writer, regs registers.Store) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REGISTER\tADDR\tHEX\tUNSIGNED\tSIGNED")
	for _, word := range registers.Words {
		v := regs.Word(word)
		fmt.Fprintf(w, "%s\t0x%02X\t0x%04X\t%d\t%d\n", word.Name, uint8(word.Hi), v, v, int16(v))
	}
	for _, r := range registers.Bytes {
		v := regs.Byte(r)
		fmt.Fprintf(w, "%s\t0x%02X\t0x%02X\t%d\t%d\n", r, uint8(r), v, v, int8(v))
	}
	return w.Flush()
}
